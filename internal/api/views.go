package api

import (
	"database/sql"
	"time"

	"myfinance/models"

	"github.com/shopspring/decimal"
)

type bankView struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Emoji       string    `json:"emoji"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
}

type balanceView struct {
	BankID int64           `json:"bankId"`
	Name   string          `json:"name"`
	Emoji  string          `json:"emoji"`
	Net    decimal.Decimal `json:"net"`
	Count  int64           `json:"count"`
}

type transactionBankView struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

type transactionView struct {
	ID                       int64               `json:"id"`
	UserID                   string              `json:"userId"`
	BankID                   int64               `json:"bankId"`
	Amount                   decimal.Decimal     `json:"amount"`
	Description              *string             `json:"description"`
	AccountTransferredToID   *int64              `json:"accountTransferredToId"`
	AccountTransferredFromID *int64              `json:"accountTransferredFromId"`
	CreatedAt                time.Time           `json:"createdAt"`
	Bank                     transactionBankView `json:"bank"`
}

type totalsView struct {
	Sum   decimal.Decimal `json:"sum"`
	Count int64           `json:"count"`
}

type userView struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name"`
	Email     *string   `json:"email"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

func optString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func optInt64(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	return &ni.Int64
}

func toBankView(b models.Bank) bankView {
	return bankView{
		ID:          b.BankID,
		UserID:      b.UserID,
		Name:        b.Name,
		Description: optString(b.Description),
		Emoji:       b.Emoji,
		Type:        string(b.Type),
		CreatedAt:   b.CreatedAt,
	}
}

func toTransactionView(t models.TransactionWithBank) transactionView {
	return transactionView{
		ID:                       t.TransactionID,
		UserID:                   t.UserID,
		BankID:                   t.BankID,
		Amount:                   t.Amount,
		Description:              optString(t.Description),
		AccountTransferredToID:   optInt64(t.AccountTransferredToID),
		AccountTransferredFromID: optInt64(t.AccountTransferredFromID),
		CreatedAt:                t.CreatedAt,
		Bank:                     transactionBankView{Name: t.BankName, Emoji: t.BankEmoji},
	}
}

func toUserView(u models.User) userView {
	return userView{
		ID:        u.UserID,
		Name:      optString(u.Name),
		Email:     optString(u.Email),
		Image:     optString(u.Image),
		CreatedAt: u.CreatedAt,
	}
}
