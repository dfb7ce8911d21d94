package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the user-facing type of a ledger entry.
type TransactionKind string

const (
	KindProfit   TransactionKind = "profit"
	KindLoss     TransactionKind = "loss"
	KindTransfer TransactionKind = "transfer"
)

// AmountScale is the number of decimal places the ledger stores,
// matching the DECIMAL(19,4) amount column.
const AmountScale = 4

// FitsScale reports whether d can be stored without rounding.
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(AmountScale))
}

// Transaction is one signed row of the ledger. Transfer legs carry the
// counterpart bank in AccountTransferredToID (debit leg) or
// AccountTransferredFromID (credit leg).
type Transaction struct {
	TransactionID            int64
	UserID                   string
	BankID                   int64
	Amount                   decimal.Decimal
	Description              sql.NullString
	AccountTransferredToID   sql.NullInt64
	AccountTransferredFromID sql.NullInt64
	CreatedAt                time.Time
}

type TransactionWithBank struct {
	Transaction // Embed the ledger row
	BankName    string
	BankEmoji   string
}

// Totals is the sum and row count of a user's whole ledger.
type Totals struct {
	Sum   decimal.Decimal
	Count int64
}

type ExternalTransaction struct {
	ExternalID string
	Amount     decimal.Decimal
	Type       string // e.g., PROFIT, LOSS, TRANSFER_IN, TRANSFER_OUT
	Reference  string
}
