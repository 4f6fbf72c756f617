// Package auth supplies authenticated actors: registered accounts with
// password credentials and anonymous guest sessions. Every write to the
// ledger is attributed to an actor ID issued here.
package auth

import (
	"context"

	"github.com/Dishu223/fairshare-splitapp/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password,
// passkeys, OAuth, etc.) without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account with the given email and
	// credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if
	// successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// Guest creates an anonymous actor with no credentials.
	Guest(ctx context.Context) (*models.User, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements.
	ValidateCredential(credential string) error
}
