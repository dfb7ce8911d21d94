// Package api exposes the ledger services as an HTTP JSON remote-procedure
// surface. Every route except /health requires a bearer session token; the
// user id it carries is resolved once by the auth middleware and passed
// explicitly to the services.
package api

import (
	"myfinance/internal/service"

	"go.uber.org/zap"
)

// TokenParser resolves a bearer token to a user id.
type TokenParser interface {
	ParseToken(raw string) (string, error)
}

type Server struct {
	accounts     service.AccountService
	transactions service.TransactionService
	users        service.UserService
	tokens       TokenParser
	log          *zap.Logger
	recentLimit  int
}

// NewServer wires the HTTP layer to its services. recentLimit bounds the
// recent-transactions call.
func NewServer(accounts service.AccountService, transactions service.TransactionService, users service.UserService, tokens TokenParser, logger *zap.Logger, recentLimit int) *Server {
	return &Server{
		accounts:     accounts,
		transactions: transactions,
		users:        users,
		tokens:       tokens,
		log:          logger,
		recentLimit:  recentLimit,
	}
}
