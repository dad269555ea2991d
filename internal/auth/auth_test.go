package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"refuge/internal/domain"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("secret")
	tok, err := v.Issue(Identity{UserID: 42, Email: "a@b.c", Role: domain.RoleAdmin}, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := v.FromHeader("Bearer " + tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != 42 || id.Email != "a@b.c" || !id.IsAdmin() {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("secret")
	if _, err := v.FromHeader(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected missing token, got %v", err)
	}
	if _, err := v.FromHeader("Token abc"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}

	other, _ := NewVerifier("other").Issue(Identity{UserID: 1}, time.Minute)
	if _, err := v.Verify(other); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected signature failure, got %v", err)
	}

	expired, _ := v.Issue(Identity{UserID: 1}, -time.Minute)
	if _, err := v.Verify(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expiry failure, got %v", err)
	}

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("secret"))
	if _, err := v.Verify(noSub); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected bad subject failure, got %v", err)
	}
}

func TestVerifier_DefaultRole(t *testing.T) {
	v := NewVerifier("secret")
	tok, _ := v.Issue(Identity{UserID: 7}, time.Minute)
	id, err := v.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.Role != domain.RoleOwner || id.IsAdmin() {
		t.Fatalf("expected owner role, got %q", id.Role)
	}
}
