// Package feed tails the MySQL binlog and reports changes to the ledger
// tables. The banks and transactions tables are insert-only, so any UPDATE
// or DELETE seen here is reported as a violation.
package feed

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"myfinance/internal/config"
	"myfinance/internal/db"
	"myfinance/models"

	gomysql "github.com/go-mysql-org/go-mysql/mysql"
	"github.com/go-mysql-org/go-mysql/replication"
	driver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// Handler receives every decoded ledger event.
type Handler func(models.LedgerEvent)

// LogHandler logs inserts at INFO and insert-only violations at ERROR.
func LogHandler(logger *zap.Logger) Handler {
	return func(ev models.LedgerEvent) {
		fields := []zap.Field{
			zap.String("table", ev.Schema+"."+ev.Table),
			zap.String("action", string(ev.Action)),
		}
		switch {
		case ev.Bank != nil:
			fields = append(fields,
				zap.Int64("bank_id", ev.Bank.BankID),
				zap.String("user_id", ev.Bank.UserID),
				zap.String("name", ev.Bank.Name))
		case ev.Transaction != nil:
			fields = append(fields,
				zap.Int64("transaction_id", ev.Transaction.TransactionID),
				zap.String("user_id", ev.Transaction.UserID),
				zap.Int64("bank_id", ev.Transaction.BankID),
				zap.Stringer("amount", ev.Transaction.Amount))
		}
		if ev.Violation() {
			logger.Error("Feed: insert-only table modified", fields...)
			return
		}
		logger.Info("Feed: ledger row inserted", fields...)
	}
}

type Consumer struct {
	cfg        config.BinlogConfig
	log        *zap.Logger
	checkpoint *Checkpoint
}

func NewConsumer(cfg config.BinlogConfig, logger *zap.Logger) *Consumer {
	return &Consumer{
		cfg:        cfg,
		log:        logger,
		checkpoint: NewCheckpoint(cfg.CheckpointFile),
	}
}

// Run streams binlog events until ctx is cancelled, resuming from the saved
// GTID set or, on first start, from the server's executed set.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	gset, err := c.startPosition(ctx)
	if err != nil {
		return err
	}

	syncer := replication.NewBinlogSyncer(replication.BinlogSyncerConfig{
		ServerID:   c.cfg.ServerID,
		Flavor:     gomysql.MySQLFlavor,
		Host:       c.cfg.Host,
		Port:       c.cfg.Port,
		User:       c.cfg.User,
		Password:   c.cfg.Password,
		UseDecimal: true,
		ParseTime:  true,
	})
	defer syncer.Close()

	streamer, err := syncer.StartSyncGTID(gset)
	if err != nil {
		return fmt.Errorf("Run: failed to start GTID sync: %w", err)
	}
	c.log.Info("Feed: streaming binlog", zap.String("gtid_set", gset.String()), zap.String("schema", c.cfg.Schema))

	for {
		ev, err := streamer.GetEvent(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				c.log.Info("Feed: stopped")
				return nil
			}
			return fmt.Errorf("Run: error fetching event: %w", err)
		}
		if err := c.dispatch(ev, handle); err != nil {
			return err
		}
	}
}

func (c *Consumer) startPosition(ctx context.Context) (gomysql.GTIDSet, error) {
	saved, err := c.checkpoint.Load()
	if err != nil {
		return nil, err
	}
	if saved == "" {
		c.log.Info("Feed: no saved GTID set, starting from the server's executed set")
		if saved, err = c.executedGTIDSet(ctx); err != nil {
			return nil, fmt.Errorf("Run: failed to get executed GTID set: %w", err)
		}
	}
	gset, err := gomysql.ParseGTIDSet(gomysql.MySQLFlavor, saved)
	if err != nil {
		return nil, fmt.Errorf("Run: invalid GTID set %q: %w", saved, err)
	}
	return gset, nil
}

func (c *Consumer) executedGTIDSet(ctx context.Context) (string, error) {
	dsn := driver.NewConfig()
	dsn.User = c.cfg.User
	dsn.Passwd = c.cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = c.cfg.Host + ":" + strconv.Itoa(int(c.cfg.Port))

	conn, err := db.Connect(ctx, dsn.FormatDSN(), c.log)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	var gtid string
	if err := conn.QueryRowContext(ctx, "SELECT @@global.gtid_executed").Scan(&gtid); err != nil {
		return "", err
	}
	return gtid, nil
}

// dispatch handles one binlog event: ledger rows go to handle, and the GTID
// set is checkpointed at every commit.
func (c *Consumer) dispatch(ev *replication.BinlogEvent, handle Handler) error {
	switch e := ev.Event.(type) {
	case *replication.RotateEvent:
		c.log.Debug("Feed: rotated binlog", zap.ByteString("next_log", e.NextLogName), zap.Uint64("position", e.Position))
	case *replication.RowsEvent:
		if c.cfg.Schema != "" && string(e.Table.Schema) != c.cfg.Schema {
			return nil
		}
		events, err := Decode(ev.Header.EventType, e)
		if err != nil {
			c.log.Warn("Feed: skipping undecodable rows event", zap.Error(err))
			return nil
		}
		for _, le := range events {
			handle(le)
		}
	case *replication.XIDEvent:
		if e.GSet == nil {
			return nil
		}
		if err := c.checkpoint.Save(e.GSet.String()); err != nil {
			return fmt.Errorf("Run: %w", err)
		}
	}
	return nil
}
