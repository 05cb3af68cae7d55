package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.GenerateToken("user-123")

	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, err := m.VerifyToken(token)

	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if userID != "user-123" {
		t.Fatalf("userID = %q, want user-123", userID)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.GenerateToken("user-123")

	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = m.VerifyToken(token)

	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.GenerateToken("user-123")

	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = verifier.VerifyToken(token)

	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyTokenGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.VerifyToken(raw)

		if !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("VerifyToken(%q) err = %v, want ErrTokenInvalid", raw, err)
		}
	}
}
