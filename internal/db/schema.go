package db

import (
	"context"
	"fmt"

	"myfinance/repository"
)

// schema is the bootstrap DDL for a fresh development database. Column order
// of banks and transactions is relied upon by the ledger feed decoder.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NULL,
		email VARCHAR(255) NULL UNIQUE,
		image VARCHAR(1024) NULL,
		created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS banks (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NULL,
		emoji VARCHAR(16) NOT NULL DEFAULT '😀',
		type VARCHAR(32) NOT NULL DEFAULT 'wallet',
		created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_banks_user (user_id)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		bank_id BIGINT NOT NULL,
		amount DECIMAL(19,4) NOT NULL, -- scale is models.AmountScale
		description TEXT NULL,
		account_transferred_to_id BIGINT NULL,
		account_transferred_from_id BIGINT NULL,
		created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_transactions_user_created (user_id, created_at),
		CONSTRAINT fk_transactions_bank FOREIGN KEY (bank_id) REFERENCES banks (id)
	) DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, dbtx repository.DBTX) error {
	for _, stmt := range schema {
		if _, err := dbtx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("EnsureSchema: %w", err)
		}
	}
	return nil
}
