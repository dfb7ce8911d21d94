package repository

import (
	"context"
	"database/sql"

	"myfinance/models"

	"github.com/shopspring/decimal"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// BankRepository defines the interface for account-related database operations.
type BankRepository interface {
	CreateBank(ctx context.Context, bank models.Bank) (int64, error)
	GetBanksForUser(ctx context.Context, userID string) ([]models.Bank, error)
	GetBankBalances(ctx context.Context, userID string) ([]models.BankBalance, error)
}

// TransactionRepository defines the interface for ledger database operations.
type TransactionRepository interface {
	// CreateTransaction inserts one row. It returns ErrNotFound when the bank
	// does not belong to the row's user.
	CreateTransaction(ctx context.Context, tx models.Transaction) (int64, error)
	// CreateTransfer inserts both legs of a transfer atomically.
	CreateTransfer(ctx context.Context, userID string, fromBankID, toBankID int64, amount decimal.Decimal, description sql.NullString) error
	GetRecentTransactions(ctx context.Context, userID string, limit int) ([]models.TransactionWithBank, error)
	GetTotals(ctx context.Context, userID string) (models.Totals, error)
	GetTransactionsForBank(ctx context.Context, userID string, bankID int64) ([]models.Transaction, error)
}

// UserRepository defines the interface for user profile operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByID(ctx context.Context, userID string) (models.User, error)
}
