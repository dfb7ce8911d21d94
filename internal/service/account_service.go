package service

import (
	"context"
	"database/sql"
	"fmt"

	"myfinance/models"
	"myfinance/repository"

	"go.uber.org/zap"
)

// NewAccount is the user-submitted form for creating a bank.
type NewAccount struct {
	Name        string
	Description string
	Emoji       string
	Type        models.BankType
}

// AccountService defines the interface for account-related business logic.
type AccountService interface {
	CreateAccount(ctx context.Context, userID string, in NewAccount) (int64, error)
	ListAccounts(ctx context.Context, userID string) ([]models.Bank, error)
	AccountBalances(ctx context.Context, userID string) ([]models.BankBalance, error)
}

// accountServiceImpl implements AccountService.
type accountServiceImpl struct {
	bankRepo repository.BankRepository
	log      *zap.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(bankRepo repository.BankRepository, logger *zap.Logger) AccountService {
	return &accountServiceImpl{bankRepo: bankRepo, log: logger}
}

// CreateAccount stores a new bank owned by userID. Names need not be unique.
func (s *accountServiceImpl) CreateAccount(ctx context.Context, userID string, in NewAccount) (int64, error) {
	if in.Type != "" && !in.Type.Valid() {
		return 0, fmt.Errorf("CreateAccount: %w: %q", ErrInvalidAccountType, in.Type)
	}
	id, err := s.bankRepo.CreateBank(ctx, models.Bank{
		UserID:      userID,
		Name:        in.Name,
		Description: sql.NullString{String: in.Description, Valid: in.Description != ""},
		Emoji:       in.Emoji,
		Type:        in.Type,
	})
	if err != nil {
		return 0, fmt.Errorf("CreateAccount: %w", err)
	}
	s.log.Info("AccountService: account created",
		zap.String("user_id", userID), zap.Int64("bank_id", id), zap.String("type", string(in.Type)))
	return id, nil
}

// ListAccounts returns every bank of userID; an empty slice is a valid result.
func (s *accountServiceImpl) ListAccounts(ctx context.Context, userID string) ([]models.Bank, error) {
	banks, err := s.bankRepo.GetBanksForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}
	return banks, nil
}

func (s *accountServiceImpl) AccountBalances(ctx context.Context, userID string) ([]models.BankBalance, error) {
	balances, err := s.bankRepo.GetBankBalances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("AccountBalances: %w", err)
	}
	return balances, nil
}
