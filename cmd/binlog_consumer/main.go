// Command binlog_consumer tails the MySQL binlog and logs every write to the
// ledger tables. UPDATE and DELETE on banks or transactions are logged at
// ERROR because those tables are insert-only.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"myfinance/internal/config"
	"myfinance/internal/feed"
	"myfinance/internal/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadFeed()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile, cfg.Development())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Binlog.Password == "" {
		logger.Fatal("Feed: MYSQL_REPLICATOR_PASSWORD not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := feed.NewConsumer(cfg.Binlog, logger)
	if err := consumer.Run(ctx, feed.LogHandler(logger)); err != nil {
		logger.Error("Feed: consumer stopped", zap.Error(err))
		os.Exit(1)
	}
}
