package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/Dishu223/fairshare-splitapp/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret-key-at-least-32-bytes!", time.Hour)

	user := models.NewUser("alex@example.com", "Alex", "hash")
	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.ActorID != user.ID {
		t.Errorf("actor ID = %s, want %s", claims.ActorID, user.ID)
	}
	if claims.Guest {
		t.Error("registered user must not carry the guest flag")
	}
}

func TestJWTGuestFlag(t *testing.T) {
	manager := NewJWTManager("test-secret-key-at-least-32-bytes!", time.Hour)

	guest := models.NewGuestUser()
	token, err := manager.Generate(guest)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !claims.Guest {
		t.Error("guest flag lost in claims")
	}
	if claims.ActorID == "" {
		t.Error("guest actor ID must be non-empty")
	}
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key-at-least-32-bytes!", -time.Minute)

	token, err := manager.Generate(models.NewGuestUser())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTRejectsForeignSignature(t *testing.T) {
	mintingManager := NewJWTManager("one-secret-key-that-is-long-enough", time.Hour)
	validatingManager := NewJWTManager("another-secret-key-long-enough-too", time.Hour)

	token, err := mintingManager.Generate(models.NewGuestUser())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := validatingManager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate error = %v, want ErrInvalidToken", err)
	}
}
