package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"myfinance/models"
	"myfinance/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NewTransaction is the user-submitted form for recording a ledger entry.
// TransferredBankID is only read for transfers.
type NewTransaction struct {
	Kind              models.TransactionKind
	BankID            int64
	TransferredBankID *int64
	Amount            decimal.Decimal
	Description       string
}

// TransactionService defines the interface for transaction-related business logic.
type TransactionService interface {
	CreateTransaction(ctx context.Context, userID string, in NewTransaction) error
	RecordSimpleTransaction(ctx context.Context, userID string, bankID int64, amount decimal.Decimal, description string, kind models.TransactionKind) error
	RecordTransfer(ctx context.Context, userID string, fromBankID, toBankID int64, amount decimal.Decimal, description string) error
	ListRecent(ctx context.Context, userID string, limit int) ([]models.TransactionWithBank, error)
	// AggregateTotals returns nil when the totals cannot be computed.
	AggregateTotals(ctx context.Context, userID string) *models.Totals
}

// transactionServiceImpl implements TransactionService.
type transactionServiceImpl struct {
	transactionRepo repository.TransactionRepository
	log             *zap.Logger
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(transactionRepo repository.TransactionRepository, logger *zap.Logger) TransactionService {
	return &transactionServiceImpl{transactionRepo: transactionRepo, log: logger}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateTransaction dispatches a submitted form to the profit/loss or the
// transfer path.
func (s *transactionServiceImpl) CreateTransaction(ctx context.Context, userID string, in NewTransaction) error {
	switch in.Kind {
	case models.KindProfit, models.KindLoss:
		return s.RecordSimpleTransaction(ctx, userID, in.BankID, in.Amount, in.Description, in.Kind)
	case models.KindTransfer:
		if in.TransferredBankID == nil {
			return fmt.Errorf("CreateTransaction: %w", ErrMissingTransferTarget)
		}
		return s.RecordTransfer(ctx, userID, in.BankID, *in.TransferredBankID, in.Amount, in.Description)
	default:
		return fmt.Errorf("CreateTransaction: %w: %q", ErrInvalidTransactionKind, in.Kind)
	}
}

// RecordSimpleTransaction inserts one row whose sign comes from kind: profit
// is an inflow, loss an outflow. The sign of amount itself is ignored.
func (s *transactionServiceImpl) RecordSimpleTransaction(ctx context.Context, userID string, bankID int64, amount decimal.Decimal, description string, kind models.TransactionKind) error {
	if !models.FitsScale(amount) {
		return fmt.Errorf("RecordSimpleTransaction: %w: %s", ErrAmountPrecision, amount)
	}
	signed := amount.Abs()
	switch kind {
	case models.KindProfit:
	case models.KindLoss:
		signed = signed.Neg()
	default:
		return fmt.Errorf("RecordSimpleTransaction: %w: %q", ErrInvalidTransactionKind, kind)
	}

	id, err := s.transactionRepo.CreateTransaction(ctx, models.Transaction{
		UserID:      userID,
		BankID:      bankID,
		Amount:      signed,
		Description: nullString(description),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("RecordSimpleTransaction: %w (ID: %d)", ErrAccountNotFound, bankID)
		}
		return fmt.Errorf("RecordSimpleTransaction: %w", err)
	}
	s.log.Info("TransactionService: transaction recorded",
		zap.String("user_id", userID), zap.Int64("transaction_id", id),
		zap.Int64("bank_id", bankID), zap.String("amount", signed.String()))
	return nil
}

// RecordTransfer moves |amount| from one bank of userID to another. Both
// ledger rows are written atomically.
func (s *transactionServiceImpl) RecordTransfer(ctx context.Context, userID string, fromBankID, toBankID int64, amount decimal.Decimal, description string) error {
	if fromBankID == toBankID {
		return fmt.Errorf("RecordTransfer: %w (ID: %d)", ErrSameAccountTransfer, fromBankID)
	}
	if !models.FitsScale(amount) {
		return fmt.Errorf("RecordTransfer: %w: %s", ErrAmountPrecision, amount)
	}

	err := s.transactionRepo.CreateTransfer(ctx, userID, fromBankID, toBankID, amount.Abs(), nullString(description))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("RecordTransfer: %w (IDs: %d, %d)", ErrAccountNotFound, fromBankID, toBankID)
		}
		return fmt.Errorf("RecordTransfer: %w", err)
	}
	s.log.Info("TransactionService: transfer recorded",
		zap.String("user_id", userID), zap.Int64("from_bank_id", fromBankID),
		zap.Int64("to_bank_id", toBankID), zap.String("amount", amount.Abs().String()))
	return nil
}

// ListRecent returns at most limit rows of userID, newest first.
func (s *transactionServiceImpl) ListRecent(ctx context.Context, userID string, limit int) ([]models.TransactionWithBank, error) {
	rows, err := s.transactionRepo.GetRecentTransactions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	return rows, nil
}

// AggregateTotals recomputes the sum and count of userID's ledger. A storage
// fault is logged and reported as nil. A nil result is not a zero sum.
func (s *transactionServiceImpl) AggregateTotals(ctx context.Context, userID string) *models.Totals {
	totals, err := s.transactionRepo.GetTotals(ctx, userID)
	if err != nil {
		s.log.Warn("TransactionService: totals unavailable",
			zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return &totals
}
