package auth

import (
	"errors"
	"testing"
	"time"

	"squido/pkg/domain"
)

func newTestIssuer(t *testing.T, ttl time.Duration) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer("test-secret", ttl, TokenOptions{})
	if err != nil {
		t.Fatalf("new token issuer: %v", err)
	}
	return issuer
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t, time.Minute)
	user := domain.User{ID: "u-1", Username: "alice", Role: domain.RoleAdmin}

	token, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u-1" || claims.Username != "alice" || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := newTestIssuer(t, time.Minute)
	other, err := NewTokenIssuer("other-secret", time.Minute, TokenOptions{})
	if err != nil {
		t.Fatalf("new token issuer: %v", err)
	}

	token, err := issuer.Issue(domain.User{ID: "u-2", Role: domain.RoleStaff})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := newTestIssuer(t, time.Minute)
	// Shrink the leeway so an already-expired token fails immediately.
	issuer.leeway = time.Millisecond
	issuer.ttl = -2 * time.Minute

	token, err := issuer.Issue(domain.User{ID: "u-3"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := newTestIssuer(t, time.Minute)
	if _, err := issuer.Verify("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
