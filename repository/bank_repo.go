package repository

import (
	"context"
	"database/sql"
	"fmt"

	"myfinance/models"
)

// mysqlBankRepository implements BankRepository for MySQL.
type mysqlBankRepository struct {
	db *sql.DB
}

// NewMySQLBankRepository creates a new MySQL bank repository.
func NewMySQLBankRepository(db *sql.DB) BankRepository {
	return &mysqlBankRepository{db: db}
}

// CreateBank inserts a new bank for bank.UserID and returns its ID.
func (r *mysqlBankRepository) CreateBank(ctx context.Context, bank models.Bank) (int64, error) {
	if bank.Emoji == "" {
		bank.Emoji = models.DefaultEmoji
	}
	if bank.Type == "" {
		bank.Type = models.BankTypeWallet
	}

	query := "INSERT INTO banks (user_id, name, description, emoji, type) VALUES (?, ?, ?, ?, ?)"
	result, err := r.db.ExecContext(ctx, query, bank.UserID, bank.Name, bank.Description, bank.Emoji, string(bank.Type))
	if err != nil {
		return 0, fmt.Errorf("CreateBank: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateBank: LastInsertId failed: %w", err)
	}
	return id, nil
}

// GetBanksForUser retrieves every bank owned by userID in creation order.
func (r *mysqlBankRepository) GetBanksForUser(ctx context.Context, userID string) ([]models.Bank, error) {
	query := "SELECT id, user_id, name, description, emoji, type, created_at FROM banks WHERE user_id = ? ORDER BY id"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("GetBanksForUser: %w", err)
	}
	defer rows.Close()

	banks := []models.Bank{}
	for rows.Next() {
		var b models.Bank
		var bankType string
		if err := rows.Scan(&b.BankID, &b.UserID, &b.Name, &b.Description, &b.Emoji, &bankType, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("GetBanksForUser: scan error: %w", err)
		}
		b.Type = models.BankType(bankType)
		banks = append(banks, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("GetBanksForUser: rows iteration error: %w", err)
	}
	return banks, nil
}

// GetBankBalances computes the net amount of every bank owned by userID.
// Banks without ledger rows are included with a zero net.
func (r *mysqlBankRepository) GetBankBalances(ctx context.Context, userID string) ([]models.BankBalance, error) {
	query := `
        SELECT
            b.id, b.name, b.emoji,
            COALESCE(SUM(t.amount), 0), COUNT(t.id)
        FROM
            banks b
        LEFT JOIN
            transactions t ON t.bank_id = b.id AND t.user_id = b.user_id
        WHERE
            b.user_id = ?
        GROUP BY
            b.id, b.name, b.emoji
        ORDER BY
            b.id;`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("GetBankBalances: db.Query failed: %w", err)
	}
	defer rows.Close()

	balances := []models.BankBalance{}
	for rows.Next() {
		var bb models.BankBalance
		if err := rows.Scan(&bb.BankID, &bb.Name, &bb.Emoji, &bb.Net, &bb.Count); err != nil {
			return nil, fmt.Errorf("GetBankBalances: rows.Scan failed: %w", err)
		}
		balances = append(balances, bb)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("GetBankBalances: rows.Err: %w", err)
	}
	return balances, nil
}
