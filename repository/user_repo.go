package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"myfinance/models"
)

type mysqlUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQL user repository.
func NewMySQLUserRepository(db *sql.DB) UserRepository {
	return &mysqlUserRepository{db: db}
}

func (r *mysqlUserRepository) CreateUser(ctx context.Context, user models.User) error {
	query := "INSERT INTO users (id, name, email, image) VALUES (?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, user.UserID, user.Name, user.Email, user.Image); err != nil {
		return fmt.Errorf("CreateUser: %w", err)
	}
	return nil
}

func (r *mysqlUserRepository) GetUserByID(ctx context.Context, userID string) (models.User, error) {
	var u models.User
	query := "SELECT id, name, email, image, created_at FROM users WHERE id = ?"
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&u.UserID, &u.Name, &u.Email, &u.Image, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, fmt.Errorf("GetUserByID: no user with ID %s: %w", userID, ErrNotFound)
		}
		return u, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}
