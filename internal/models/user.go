package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an actor that can attribute writes: either a registered
// account or an anonymous guest session. Users are not group members; group
// membership is by display name only.
type User struct {
	// ID is the unique actor identifier (UUID format).
	ID string `json:"id"`

	// Email is the login address for registered users; empty for guests.
	Email string `json:"email,omitempty"`

	// DisplayName is the human-readable name shown in clients.
	DisplayName string `json:"displayName"`

	// PasswordHash is the bcrypt hash for registered users; empty for
	// guests.
	PasswordHash string `json:"-"`

	// Guest marks an anonymous session actor.
	Guest bool `json:"guest"`

	// CreatedAt and UpdatedAt are Unix timestamps (seconds).
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// NewUser builds a registered user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewGuestUser builds an anonymous actor. Guests have no credentials and
// cannot log in again once their token expires.
func NewGuestUser() *User {
	now := time.Now().Unix()
	return &User{
		ID:          uuid.New().String(),
		DisplayName: "Guest",
		Guest:       true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
