package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"myfinance/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New err=%v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

func TestCreateBankDefaultsEmojiAndType(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLBankRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO banks (user_id, name, description, emoji, type)")).
		WithArgs("u1", "Wallet", nil, models.DefaultEmoji, "wallet").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.CreateBank(context.Background(), models.Bank{UserID: "u1", Name: "Wallet"})
	if err != nil {
		t.Fatalf("CreateBank err=%v", err)
	}
	if id != 7 {
		t.Fatalf("id=%d want 7", id)
	}
}

func TestGetBanksForUserEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLBankRepository(db)

	mock.ExpectQuery("SELECT id, user_id, name, description, emoji, type, created_at FROM banks").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "description", "emoji", "type", "created_at"}))

	banks, err := repo.GetBanksForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetBanksForUser err=%v", err)
	}
	if banks == nil || len(banks) != 0 {
		t.Fatalf("banks=%v want empty non-nil slice", banks)
	}
}

func TestGetBankBalances(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLBankRepository(db)

	mock.ExpectQuery("FROM\\s+banks b\\s+LEFT JOIN").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "emoji", "net", "count"}).
			AddRow(1, "Wallet", "💰", "30.0000", 2).
			AddRow(2, "Savings", "🐷", "20.0000", 1))

	balances, err := repo.GetBankBalances(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetBankBalances err=%v", err)
	}
	if len(balances) != 2 || !balances[0].Net.Equal(decimal.NewFromInt(30)) || balances[1].Count != 1 {
		t.Fatalf("balances=%+v", balances)
	}
}

func TestCreateTransactionForeignBank(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLTransactionRepository(db)

	mock.ExpectExec("INSERT INTO transactions").
		WithArgs("u1", "50", nil, nil, nil, int64(3), "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.CreateTransaction(context.Background(), models.Transaction{
		UserID: "u1", BankID: 3, Amount: decimal.NewFromInt(50),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCreateTransferCommitsBothLegs(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLTransactionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM banks WHERE user_id = ? AND id IN (?, ?)")).
		WithArgs("u1", int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs("u1", int64(1), "-20", "rent", int64(2), nil).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs("u1", int64(2), "20", "rent", nil, int64(1)).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	err := repo.CreateTransfer(context.Background(), "u1", 1, 2, decimal.NewFromInt(20), sql.NullString{String: "rent", Valid: true})
	if err != nil {
		t.Fatalf("CreateTransfer err=%v", err)
	}
}

func TestCreateTransferRollsBackOnSecondLeg(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLTransactionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("INSERT INTO transactions").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.CreateTransfer(context.Background(), "u1", 1, 2, decimal.NewFromInt(20), sql.NullString{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateTransferUnownedBank(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLTransactionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.CreateTransfer(context.Background(), "u1", 1, 9, decimal.NewFromInt(20), sql.NullString{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetRecentTransactions(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLTransactionRepository(db)

	now := time.Now()
	cols := []string{"id", "user_id", "bank_id", "amount", "description", "to", "from", "created_at", "name", "emoji"}
	mock.ExpectQuery("ORDER BY\\s+t.created_at DESC, t.id DESC").
		WithArgs("u1", 5).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(3, "u1", 2, "20.0000", nil, nil, 1, now, "Savings", "🐷").
			AddRow(2, "u1", 1, "-20.0000", nil, 2, nil, now, "Wallet", "💰"))

	got, err := repo.GetRecentTransactions(context.Background(), "u1", 5)
	if err != nil {
		t.Fatalf("GetRecentTransactions err=%v", err)
	}
	if len(got) != 2 || got[0].BankName != "Savings" || !got[1].AccountTransferredToID.Valid {
		t.Fatalf("got=%+v", got)
	}
}

func TestGetTotals(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLTransactionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM transactions WHERE user_id = ?")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"sum", "count"}).AddRow("50.0000", 3))

	totals, err := repo.GetTotals(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetTotals err=%v", err)
	}
	if !totals.Sum.Equal(decimal.NewFromInt(50)) || totals.Count != 3 {
		t.Fatalf("totals=%+v", totals)
	}
}

func TestGetUserByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLUserRepository(db)

	mock.ExpectQuery("SELECT id, name, email, image, created_at FROM users").
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetUserByID(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetTotalsEmptyLedgerIsZero(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLTransactionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM transactions WHERE user_id = ?")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"sum", "count"}).AddRow("0", 0))

	totals, err := repo.GetTotals(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetTotals err=%v", err)
	}
	if !totals.Sum.IsZero() || totals.Count != 0 {
		t.Fatalf("totals=%+v want {0 0}", totals)
	}
}
