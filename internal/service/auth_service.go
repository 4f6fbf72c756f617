package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dishu223/fairshare-splitapp/internal/auth"
	"github.com/Dishu223/fairshare-splitapp/internal/models"
)

// AuthService handles actor registration and session issuance. It wraps an
// Authenticator and mints JWT tokens for successful logins.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Register creates a new account and returns the user with a session token.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*models.User, string, error) {
	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", email)
	return user, token, nil
}

// Login authenticates an existing account and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}

// Guest creates an anonymous actor and returns a session token. Guests have
// full access to the ledger; only the token ties them to their actor ID.
func (s *AuthService) Guest(ctx context.Context) (*models.User, string, error) {
	user, err := s.authenticator.Guest(ctx)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("Guest session created", "user_id", user.ID)
	return user, token, nil
}
