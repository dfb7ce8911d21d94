package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestReadExternalTransactionsSkipsBadRows(t *testing.T) {
	input := strings.Join([]string{
		"external_id,amount,type,reference",
		"E1, 50.00 ,profit,salary",
		"E2,abc,loss,broken amount",
		"E3,12",
		"E4,20,transfer_out,to savings",
	}, "\n")

	txs, err := ReadExternalTransactions(strings.NewReader(input), zap.NewNop())
	if err != nil {
		t.Fatalf("ReadExternalTransactions err=%v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len=%d want 2: %+v", len(txs), txs)
	}
	if txs[0].ExternalID != "E1" || txs[0].Type != "PROFIT" || !txs[0].Amount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("first row=%+v", txs[0])
	}
	if txs[1].Type != "TRANSFER_OUT" || txs[1].Reference != "to savings" {
		t.Fatalf("second row=%+v", txs[1])
	}
}

func TestReadExternalTransactionsEmpty(t *testing.T) {
	txs, err := ReadExternalTransactions(strings.NewReader(""), zap.NewNop())
	if err != nil || len(txs) != 0 {
		t.Fatalf("txs=%v err=%v", txs, err)
	}
}

func TestLoadExternalTransactionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.csv")
	if err := os.WriteFile(path, []byte("id,amount,type,ref\nX,1.5,loss,coffee\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	txs, err := NewStatementLoader(zap.NewNop()).LoadExternalTransactions(path)
	if err != nil || len(txs) != 1 {
		t.Fatalf("txs=%v err=%v", txs, err)
	}
	if _, err := NewStatementLoader(zap.NewNop()).LoadExternalTransactions(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadExternalTransactionsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"external_id", "amount", "type", "reference"},
		{"B1", "50", "profit", "salary"},
		{"B2", "n/a", "loss", "bad amount"},
		{"B3", "-20", "transfer_out", "to savings"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	txs, err := NewStatementLoader(zap.NewNop()).LoadExternalTransactions(path)
	if err != nil {
		t.Fatalf("LoadExternalTransactions err=%v", err)
	}
	if len(txs) != 2 || txs[0].ExternalID != "B1" || !txs[1].Amount.Equal(decimal.NewFromInt(-20)) || txs[1].Type != "TRANSFER_OUT" {
		t.Fatalf("txs=%+v", txs)
	}
}
