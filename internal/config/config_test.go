package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_DSN", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.TokenTTL != 24*time.Hour || cfg.RecentLimit != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Development() || cfg.Binlog.Port != 3306 || cfg.Binlog.ServerID != 101 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	path := filepath.Join(t.TempDir(), ".env")
	content := "HTTP_ADDR=:9090\nTOKEN_TTL=2h\nJWT_SECRET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("HTTP_ADDR")
		os.Unsetenv("TOKEN_TTL")
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.TokenTTL != 2*time.Hour {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	// godotenv never overrides variables that are already set.
	if cfg.JWTSecret != "from-env" {
		t.Fatalf("JWTSecret=%q want from-env", cfg.JWTSecret)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("want ErrMissingSecret, got %v", err)
	}
}

func TestLoadRejectsBadLimit(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("RECENT_LIMIT", "0")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error for RECENT_LIMIT=0")
	}
}

func TestLoadFeedWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("BINLOG_PORT", "3307")
	t.Setenv("BINLOG_SCHEMA", "ledger")
	cfg, err := LoadFeed(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadFeed err=%v", err)
	}
	if cfg.Binlog.Port != 3307 || cfg.Binlog.Schema != "ledger" || cfg.Binlog.CheckpointFile != "last_gtid.txt" {
		t.Fatalf("binlog=%+v", cfg.Binlog)
	}
}
