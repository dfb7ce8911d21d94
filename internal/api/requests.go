package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"myfinance/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(transactionAmountScale, createTransactionRequest{})
	return v
}

// transactionAmountScale rejects amounts the ledger column would round.
func transactionAmountScale(sl validator.StructLevel) {
	req := sl.Current().Interface().(createTransactionRequest)
	if req.Amount != nil && !models.FitsScale(*req.Amount) {
		sl.ReportError(req.Amount, "Amount", "Amount", "maxscale", fmt.Sprint(models.AmountScale))
	}
}

type createBankRequest struct {
	Name        string `json:"name" validate:"required,max=24"`
	Description string `json:"description"`
	Emoji       string `json:"emoji" validate:"omitempty,max=16"`
	Type        string `json:"type" validate:"omitempty,oneof=wallet transit savings piggy allowance income college business miscellaneous"`
}

type createTransactionRequest struct {
	Type              string           `json:"type" validate:"required,oneof=profit loss transfer"`
	BankID            int64            `json:"bankId" validate:"required,gt=0"`
	TransferredBankID *int64           `json:"transferredBankId" validate:"required_if=Type transfer,omitempty,gt=0"`
	Amount            *decimal.Decimal `json:"amount" validate:"required"`
	Description       string           `json:"description"`
}

// decodeAndValidate reads exactly one JSON object into dst and checks its
// struct tags. Unknown fields and trailing data are rejected.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("malformed JSON body: unexpected data after the request object")
	}
	if err := validate.Struct(dst); err != nil {
		return err
	}
	return nil
}
