package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSignAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour)
	m.Now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }

	token, err := m.Sign("user-1", "demo@taskflow.com")
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.UserID() != "user-1" || claims.Email != "demo@taskflow.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseExpired(t *testing.T) {
	m := NewManager("secret", time.Minute)
	m.Now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }

	token, err := m.Sign("user-1", "demo@taskflow.com")
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	m.Now = func() time.Time { return time.Date(2026, 8, 1, 13, 0, 0, 0, time.UTC) }
	if _, err := m.Parse(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	m := NewManager("secret", time.Hour)
	token, err := m.Sign("user-1", "demo@taskflow.com")
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	other := NewManager("different", time.Hour)
	if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	if got := BearerToken("Bearer abc.def.ghi"); got != "abc.def.ghi" {
		t.Fatalf("unexpected token: %q", got)
	}
	if got := BearerToken("bearer abc"); got != "abc" {
		t.Fatalf("scheme should be case-insensitive, got %q", got)
	}
	if got := BearerToken("Basic abc"); got != "" {
		t.Fatalf("expected empty token for Basic scheme, got %q", got)
	}
	if got := BearerToken(""); got != "" {
		t.Fatalf("expected empty token for empty header, got %q", got)
	}
}
