package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// Connect opens a MySQL pool for dsn and verifies it with a ping. The DSN is
// normalised so DATETIME columns scan into time.Time and emoji survive the
// round trip.
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("DB: invalid DATABASE_DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Collation = "utf8mb4_unicode_ci"

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("DB: Error opening database: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("DB: Error connecting to database: %w", err)
	}
	logger.Info("DB: Successfully connected to database!",
		zap.String("addr", cfg.Addr), zap.String("database", cfg.DBName))

	return db, nil
}
