package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"myfinance/models"
	"myfinance/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type staticLoader []models.ExternalTransaction

func (s staticLoader) LoadExternalTransactions(string) ([]models.ExternalTransaction, error) {
	return s, nil
}

func TestReconcileStatement(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	logger := zap.NewNop()
	accounts := NewAccountService(store, logger)
	txs := NewTransactionService(store, logger)

	wallet := mustCreate(t, accounts, "U1", NewAccount{Name: "Wallet"})
	savings := mustCreate(t, accounts, "U1", NewAccount{Name: "Savings"})
	_ = txs.RecordSimpleTransaction(ctx, "U1", wallet, dec(50), "salary", models.KindProfit)
	_ = txs.RecordSimpleTransaction(ctx, "U1", wallet, dec(4), "coffee", models.KindLoss)
	_ = txs.RecordTransfer(ctx, "U1", wallet, savings, dec(20), "")

	statement := staticLoader{
		{ExternalID: "S1", Amount: dec(50), Type: "PROFIT", Reference: "payroll"},
		{ExternalID: "S2", Amount: dec(5), Type: "LOSS", Reference: "cafe"},
		{ExternalID: "S3", Amount: decimal.RequireFromString("99.99"), Type: "PROFIT", Reference: "refund"},
	}
	svc := NewReconciliationService(store, statement, logger)

	report, err := svc.ReconcileStatement(ctx, "U1", wallet, "ignored.csv")
	if err != nil {
		t.Fatalf("ReconcileStatement err=%v", err)
	}
	if len(report.Matched) != 1 || !strings.Contains(report.Matched[0], "S1") {
		t.Fatalf("matched=%v", report.Matched)
	}
	if len(report.Mismatched) != 1 || !strings.Contains(report.Mismatched[0], "S2") {
		t.Fatalf("mismatched=%v", report.Mismatched)
	}
	if len(report.OnlyInLedger) != 1 || !strings.Contains(report.OnlyInLedger[0], "TRANSFER_OUT") {
		t.Fatalf("onlyInLedger=%v", report.OnlyInLedger)
	}
	if len(report.OnlyInStatement) != 1 || !strings.Contains(report.OnlyInStatement[0], "S3") {
		t.Fatalf("onlyInStatement=%v", report.OnlyInStatement)
	}

	var buf bytes.Buffer
	if _, err := report.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "[Transactions Only in Statement]") {
		t.Fatalf("report text=%s", buf.String())
	}
}
