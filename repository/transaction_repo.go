package repository

import (
	"context"
	"database/sql"
	"fmt"

	"myfinance/models"

	"github.com/shopspring/decimal"
)

// mysqlTransactionRepository implements TransactionRepository for MySQL.
type mysqlTransactionRepository struct {
	db *sql.DB
}

// NewMySQLTransactionRepository creates a new MySQL transaction repository.
func NewMySQLTransactionRepository(db *sql.DB) TransactionRepository {
	return &mysqlTransactionRepository{db: db}
}

// insertTransaction writes one ledger row without checking bank ownership.
func insertTransaction(ctx context.Context, dbtx DBTX, t models.Transaction) (int64, error) {
	query := "INSERT INTO transactions (user_id, bank_id, amount, description, account_transferred_to_id, account_transferred_from_id) VALUES (?, ?, ?, ?, ?, ?)"
	result, err := dbtx.ExecContext(ctx, query, t.UserID, t.BankID, t.Amount, t.Description, t.AccountTransferredToID, t.AccountTransferredFromID)
	if err != nil {
		return 0, fmt.Errorf("insertTransaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insertTransaction: LastInsertId failed: %w", err)
	}
	return id, nil
}

// CreateTransaction inserts a row only if its bank belongs to the row's user.
func (r *mysqlTransactionRepository) CreateTransaction(ctx context.Context, t models.Transaction) (int64, error) {
	query := `
        INSERT INTO transactions
            (user_id, bank_id, amount, description, account_transferred_to_id, account_transferred_from_id)
        SELECT ?, id, ?, ?, ?, ?
        FROM banks
        WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		t.UserID, t.Amount, t.Description, t.AccountTransferredToID, t.AccountTransferredFromID,
		t.BankID, t.UserID)
	if err != nil {
		return 0, fmt.Errorf("CreateTransaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("CreateTransaction: RowsAffected failed: %w", err)
	}
	if affected == 0 {
		return 0, fmt.Errorf("CreateTransaction: bank %d of user %s: %w", t.BankID, t.UserID, ErrNotFound)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateTransaction: LastInsertId failed: %w", err)
	}
	return id, nil
}

// CreateTransfer records the debit and credit legs of a transfer in a single
// database transaction. Either both rows are committed or neither is.
func (r *mysqlTransactionRepository) CreateTransfer(ctx context.Context, userID string, fromBankID, toBankID int64, amount decimal.Decimal, description sql.NullString) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("CreateTransfer: failed to begin transaction: %w", err)
	}
	// If Commit() is called, the Rollback() is a no-op.
	defer tx.Rollback()

	want := 2
	if fromBankID == toBankID {
		want = 1
	}
	var owned int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM banks WHERE user_id = ? AND id IN (?, ?)", userID, fromBankID, toBankID).Scan(&owned)
	if err != nil {
		return fmt.Errorf("CreateTransfer: failed to query banks (IDs: %d, %d): %w", fromBankID, toBankID, err)
	}
	if owned != want {
		return fmt.Errorf("CreateTransfer: banks %d, %d of user %s: %w", fromBankID, toBankID, userID, ErrNotFound)
	}

	debit := models.Transaction{
		UserID:                 userID,
		BankID:                 fromBankID,
		Amount:                 amount.Abs().Neg(),
		Description:            description,
		AccountTransferredToID: sql.NullInt64{Int64: toBankID, Valid: true},
	}
	if _, err := insertTransaction(ctx, tx, debit); err != nil {
		return fmt.Errorf("CreateTransfer: failed to record debit leg (bank %d): %w", fromBankID, err)
	}

	credit := models.Transaction{
		UserID:                   userID,
		BankID:                   toBankID,
		Amount:                   amount.Abs(),
		Description:              description,
		AccountTransferredFromID: sql.NullInt64{Int64: fromBankID, Valid: true},
	}
	if _, err := insertTransaction(ctx, tx, credit); err != nil {
		return fmt.Errorf("CreateTransfer: failed to record credit leg (bank %d): %w", toBankID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("CreateTransfer: failed to commit transaction: %w", err)
	}
	return nil
}

// GetRecentTransactions returns up to limit rows of userID, newest first,
// joined with the owning bank's display fields.
func (r *mysqlTransactionRepository) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]models.TransactionWithBank, error) {
	query := `
        SELECT
            t.id, t.user_id, t.bank_id, t.amount, t.description,
            t.account_transferred_to_id, t.account_transferred_from_id, t.created_at,
            b.name, b.emoji
        FROM
            transactions t
        JOIN
            banks b ON t.bank_id = b.id
        WHERE
            t.user_id = ?
        ORDER BY
            t.created_at DESC, t.id DESC
        LIMIT ?;`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("GetRecentTransactions: db.Query failed: %w", err)
	}
	defer rows.Close()

	results := []models.TransactionWithBank{}
	for rows.Next() {
		var twb models.TransactionWithBank
		err := rows.Scan(
			&twb.TransactionID, &twb.UserID, &twb.BankID, &twb.Amount, &twb.Description,
			&twb.AccountTransferredToID, &twb.AccountTransferredFromID, &twb.CreatedAt,
			&twb.BankName, &twb.BankEmoji,
		)
		if err != nil {
			return nil, fmt.Errorf("GetRecentTransactions: rows.Scan failed: %w", err)
		}
		results = append(results, twb)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("GetRecentTransactions: rows.Err: %w", err)
	}
	return results, nil
}

// GetTotals sums every ledger row of userID. SUM over no rows is NULL in
// MySQL; COALESCE turns an empty ledger into {0, 0}, so a nil Totals from the
// service always means the query failed.
func (r *mysqlTransactionRepository) GetTotals(ctx context.Context, userID string) (models.Totals, error) {
	var totals models.Totals
	query := "SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM transactions WHERE user_id = ?"
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&totals.Sum, &totals.Count); err != nil {
		return totals, fmt.Errorf("GetTotals: Scan failed: %w", err)
	}
	return totals, nil
}

// GetTransactionsForBank retrieves every row recorded against one bank of userID, oldest first.
func (r *mysqlTransactionRepository) GetTransactionsForBank(ctx context.Context, userID string, bankID int64) ([]models.Transaction, error) {
	query := "SELECT id, user_id, bank_id, amount, description, account_transferred_to_id, account_transferred_from_id, created_at FROM transactions WHERE user_id = ? AND bank_id = ? ORDER BY id"
	rows, err := r.db.QueryContext(ctx, query, userID, bankID)
	if err != nil {
		return nil, fmt.Errorf("GetTransactionsForBank: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.TransactionID, &t.UserID, &t.BankID, &t.Amount, &t.Description, &t.AccountTransferredToID, &t.AccountTransferredFromID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("GetTransactionsForBank: scan error: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("GetTransactionsForBank: rows iteration error: %w", err)
	}
	return transactions, nil
}
