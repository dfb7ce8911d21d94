package main

import (
	"context"
	"database/sql"

	"myfinance/internal/auth"
	"myfinance/internal/config"
	"myfinance/internal/db"
	"myfinance/internal/logging"
	"myfinance/internal/service"
	"myfinance/internal/util"
	"myfinance/repository"

	"go.uber.org/zap"
)

// app holds the wiring shared by every subcommand.
type app struct {
	cfg    config.Config
	log    *zap.Logger
	dbConn *sql.DB

	issuer         *auth.Issuer
	accounts       service.AccountService
	transactions   service.TransactionService
	users          service.UserService
	reconciliation service.ReconciliationService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile, cfg.Development())
	if err != nil {
		return nil, err
	}

	var (
		bankRepo repository.BankRepository
		txRepo   repository.TransactionRepository
		userRepo repository.UserRepository
		dbConn   *sql.DB
	)
	if cfg.DatabaseDSN == "" {
		logger.Warn("App: DATABASE_DSN not set, using the in-memory store; data is lost on exit")
		store := repository.NewMemoryStore()
		bankRepo, txRepo, userRepo = store, store, store
	} else {
		dbConn, err = db.Connect(ctx, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, err
		}
		if cfg.DBBootstrap {
			if err := db.EnsureSchema(ctx, dbConn); err != nil {
				dbConn.Close()
				return nil, err
			}
			logger.Info("App: schema bootstrap complete")
		}
		bankRepo = repository.NewMySQLBankRepository(dbConn)
		txRepo = repository.NewMySQLTransactionRepository(dbConn)
		userRepo = repository.NewMySQLUserRepository(dbConn)
	}

	return &app{
		cfg:            cfg,
		log:            logger,
		dbConn:         dbConn,
		issuer:         auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		accounts:       service.NewAccountService(bankRepo, logger),
		transactions:   service.NewTransactionService(txRepo, logger),
		users:          service.NewUserService(userRepo, logger),
		reconciliation: service.NewReconciliationService(txRepo, util.NewStatementLoader(logger), logger),
	}, nil
}

func (a *app) Close() {
	if a.dbConn != nil {
		a.dbConn.Close()
	}
	_ = a.log.Sync()
}
