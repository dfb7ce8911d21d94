// Package config reads process settings from the environment, after loading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// BinlogConfig holds the replication settings used by the ledger feed.
type BinlogConfig struct {
	Host           string
	Port           uint16
	User           string
	Password       string
	ServerID       uint32
	Schema         string
	CheckpointFile string
}

type Config struct {
	Env         string
	DatabaseDSN string
	DBBootstrap bool
	HTTPAddr    string
	JWTSecret   string
	TokenTTL    time.Duration
	LogLevel    string
	LogFile     string
	RecentLimit int
	Binlog      BinlogConfig
}

// Development reports whether the process runs outside production.
func (c Config) Development() bool {
	return c.Env != "production"
}

var ErrMissingSecret = errors.New("JWT_SECRET environment variable not set")

// Load reads .env (if present) and then the environment. Variables already
// set in the environment take precedence over the file. JWT_SECRET is required.
func Load(files ...string) (Config, error) {
	cfg, err := read(files...)
	if err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingSecret
	}
	return cfg, nil
}

// LoadFeed is Load for processes that never issue or verify session tokens,
// such as the ledger feed consumer.
func LoadFeed(files ...string) (Config, error) {
	return read(files...)
}

func read(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("Config: error loading .env file: %w", err)
	}

	cfg := Config{
		Env:         getenv("APP_ENV", "development"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFile:     os.Getenv("LOG_FILE"),
		Binlog: BinlogConfig{
			Host:           getenv("BINLOG_HOST", "127.0.0.1"),
			User:           getenv("MYSQL_REPLICATOR_USER", "repl"),
			Password:       os.Getenv("MYSQL_REPLICATOR_PASSWORD"),
			Schema:         getenv("BINLOG_SCHEMA", "myfinance"),
			CheckpointFile: getenv("BINLOG_CHECKPOINT_FILE", "last_gtid.txt"),
		},
	}
	var err error
	if cfg.DBBootstrap, err = strconv.ParseBool(getenv("DB_BOOTSTRAP", "false")); err != nil {
		return Config{}, fmt.Errorf("Config: DB_BOOTSTRAP: %w", err)
	}
	if cfg.TokenTTL, err = time.ParseDuration(getenv("TOKEN_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("Config: TOKEN_TTL: %w", err)
	}
	if cfg.RecentLimit, err = strconv.Atoi(getenv("RECENT_LIMIT", "5")); err != nil || cfg.RecentLimit <= 0 {
		return Config{}, fmt.Errorf("Config: RECENT_LIMIT must be a positive integer, got %q", os.Getenv("RECENT_LIMIT"))
	}
	port, err := strconv.ParseUint(getenv("BINLOG_PORT", "3306"), 10, 16)
	if err != nil {
		return Config{}, fmt.Errorf("Config: BINLOG_PORT: %w", err)
	}
	cfg.Binlog.Port = uint16(port)
	serverID, err := strconv.ParseUint(getenv("BINLOG_SERVER_ID", "101"), 10, 32)
	if err != nil {
		return Config{}, fmt.Errorf("Config: BINLOG_SERVER_ID: %w", err)
	}
	cfg.Binlog.ServerID = uint32(serverID)

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
