package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/careerwise-ai/careerwise/internal/auth"
)

func TestIssueAndVerifyToken(t *testing.T) {
	svc, err := auth.NewService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error creating auth service: %v", err)
	}

	token, err := svc.IssueToken("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("issue token returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a signed token")
	}

	identity, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}
	if identity.ID != "user-123" {
		t.Fatalf("expected subject user-123, got %s", identity.ID)
	}
	if identity.Email != "alice@example.com" {
		t.Fatalf("expected email preserved, got %s", identity.Email)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc, err := auth.NewService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error creating auth service: %v", err)
	}

	if _, err := svc.VerifyToken("not-a-token"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyTokenRejectsForeignSecret(t *testing.T) {
	issuer, err := auth.NewService("issuer-secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error creating auth service: %v", err)
	}
	verifier, err := auth.NewService("other-secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error creating auth service: %v", err)
	}

	token, err := issuer.IssueToken("user-123", "")
	if err != nil {
		t.Fatalf("issue token returned error: %v", err)
	}

	if _, err := verifier.VerifyToken(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign secret, got %v", err)
	}
}

func TestNewServiceRequiresSecret(t *testing.T) {
	if _, err := auth.NewService("   ", time.Hour); !errors.Is(err, auth.ErrSecretRequired) {
		t.Fatalf("expected ErrSecretRequired, got %v", err)
	}
}
