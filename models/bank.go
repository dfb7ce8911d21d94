package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// BankType is the advisory category a user picks for an account.
type BankType string

const (
	BankTypeWallet        BankType = "wallet"
	BankTypeTransit       BankType = "transit"
	BankTypeSavings       BankType = "savings"
	BankTypePiggy         BankType = "piggy"
	BankTypeAllowance     BankType = "allowance"
	BankTypeIncome        BankType = "income"
	BankTypeCollege       BankType = "college"
	BankTypeBusiness      BankType = "business"
	BankTypeMiscellaneous BankType = "miscellaneous"
)

// DefaultEmoji is stored when an account is created without one.
const DefaultEmoji = "😀"

// BankTypes lists every accepted BankType in display order.
var BankTypes = []BankType{
	BankTypeWallet, BankTypeTransit, BankTypeSavings, BankTypePiggy, BankTypeAllowance,
	BankTypeIncome, BankTypeCollege, BankTypeBusiness, BankTypeMiscellaneous,
}

// Valid reports whether t is one of BankTypes.
func (t BankType) Valid() bool {
	for _, bt := range BankTypes {
		if bt == t {
			return true
		}
	}
	return false
}

// Bank is a user-owned named bucket of money ("account" in the UI).
type Bank struct {
	BankID      int64
	UserID      string
	Name        string
	Description sql.NullString
	Emoji       string
	Type        BankType
	CreatedAt   time.Time
}

// BankBalance is the net of all ledger rows recorded against one bank.
type BankBalance struct {
	BankID int64
	Name   string
	Emoji  string
	Net    decimal.Decimal
	Count  int64
}
