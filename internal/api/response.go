package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"myfinance/internal/service"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Error: msg})
}

// writeServiceErr maps a service error onto a status code. Unexpected errors
// are logged and reported without their details.
func (s *Server) writeServiceErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrSameAccountTransfer),
		errors.Is(err, service.ErrMissingTransferTarget),
		errors.Is(err, service.ErrInvalidTransactionKind),
		errors.Is(err, service.ErrInvalidAccountType),
		errors.Is(err, service.ErrAmountPrecision):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAccountNotFound):
		writeErr(w, http.StatusNotFound, service.ErrAccountNotFound.Error())
	default:
		s.log.Error("API: request failed",
			zap.String("path", r.URL.Path), zap.String("request_id", requestIDFrom(r)), zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}
