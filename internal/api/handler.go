package api

import (
	"encoding/json"
	"net/http"

	"myfinance/internal/service"
	"myfinance/models"
)

// health: GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getUser: GET /users/{id}. Responds with null when the user does not exist.
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	if u == nil {
		writeJSON(w, http.StatusOK, json.RawMessage("null"))
		return
	}
	writeJSON(w, http.StatusOK, toUserView(*u))
}

// listBanks: GET /banks
func (s *Server) listBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := s.accounts.ListAccounts(r.Context(), sessionUser(r))
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	views := make([]bankView, 0, len(banks))
	for _, b := range banks {
		views = append(views, toBankView(b))
	}
	writeJSON(w, http.StatusOK, views)
}

// createBank: POST /banks
func (s *Server) createBank(w http.ResponseWriter, r *http.Request) {
	var req createBankRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := s.accounts.CreateAccount(r.Context(), sessionUser(r), service.NewAccount{
		Name:        req.Name,
		Description: req.Description,
		Emoji:       req.Emoji,
		Type:        models.BankType(req.Type),
	})
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "account created"})
}

// bankBalances: GET /banks/balances
func (s *Server) bankBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.accounts.AccountBalances(r.Context(), sessionUser(r))
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	views := make([]balanceView, 0, len(balances))
	for _, b := range balances {
		views = append(views, balanceView{BankID: b.BankID, Name: b.Name, Emoji: b.Emoji, Net: b.Net, Count: b.Count})
	}
	writeJSON(w, http.StatusOK, views)
}

// totalAmount: GET /transactions/total. Responds with null when the totals
// are unavailable.
func (s *Server) totalAmount(w http.ResponseWriter, r *http.Request) {
	totals := s.transactions.AggregateTotals(r.Context(), sessionUser(r))
	if totals == nil {
		writeJSON(w, http.StatusOK, json.RawMessage("null"))
		return
	}
	writeJSON(w, http.StatusOK, totalsView{Sum: totals.Sum, Count: totals.Count})
}

// recentTransactions: GET /transactions/recent
func (s *Server) recentTransactions(w http.ResponseWriter, r *http.Request) {
	rows, err := s.transactions.ListRecent(r.Context(), sessionUser(r), s.recentLimit)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	views := make([]transactionView, 0, len(rows))
	for _, t := range rows {
		views = append(views, toTransactionView(t))
	}
	writeJSON(w, http.StatusOK, views)
}

// createTransaction: POST /transactions
func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	err := s.transactions.CreateTransaction(r.Context(), sessionUser(r), service.NewTransaction{
		Kind:              models.TransactionKind(req.Type),
		BankID:            req.BankID,
		TransferredBankID: req.TransferredBankID,
		Amount:            *req.Amount,
		Description:       req.Description,
	})
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "transaction recorded"})
}
