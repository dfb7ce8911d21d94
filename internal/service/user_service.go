package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"myfinance/models"
	"myfinance/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	// GetProfile returns nil without error when the user does not exist.
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	CreateUser(ctx context.Context, name, email string) (models.User, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) UserService {
	return &userServiceImpl{userRepo: userRepo, log: logger}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("GetProfile: %w", err)
	}
	return &u, nil
}

// CreateUser registers a local user with a fresh UUID.
func (s *userServiceImpl) CreateUser(ctx context.Context, name, email string) (models.User, error) {
	u := models.User{
		UserID: uuid.NewString(),
		Name:   sql.NullString{String: name, Valid: name != ""},
		Email:  sql.NullString{String: email, Valid: email != ""},
	}
	if err := s.userRepo.CreateUser(ctx, u); err != nil {
		return models.User{}, fmt.Errorf("CreateUser: %w", err)
	}
	s.log.Info("UserService: user created", zap.String("user_id", u.UserID))
	return u, nil
}
