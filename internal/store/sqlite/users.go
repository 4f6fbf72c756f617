package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dishu223/fairshare-splitapp/internal/models"
)

// CreateUser inserts a new actor record. Guests have no email or password
// hash.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	var email any
	if user.Email != "" {
		email = user.Email
	}
	var passwordHash any
	if user.PasswordHash != "" {
		passwordHash = user.PasswordHash
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, display_name, password_hash, guest, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, email, user.DisplayName, passwordHash, user.Guest, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by email. Returns (nil, nil) when no such
// user exists.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx,
		"SELECT id, email, display_name, password_hash, guest, created_at, updated_at FROM users WHERE email = ?",
		email)
}

// GetUserByID retrieves a user by ID. Returns (nil, nil) when no such user
// exists.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx,
		"SELECT id, email, display_name, password_hash, guest, created_at, updated_at FROM users WHERE id = ?",
		id)
}

func (s *SQLiteStore) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var email, passwordHash sql.NullString

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &email, &user.DisplayName, &passwordHash, &user.Guest,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if email.Valid {
		user.Email = email.String
	}
	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}

	return user, nil
}
