package session

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "token"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func signToken(t *testing.T, admin bool, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"isAdmin": admin,
		"exp":     expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("server-side-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestTokenRoundTrip(t *testing.T) {
	store := newStore(t)
	if _, err := store.Token(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := store.Save("abc123"); err != nil {
		t.Fatalf("save: %v", err)
	}
	token, err := store.Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "abc123" {
		t.Fatalf("token = %q", token)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Token(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
	// Clearing again must stay quiet.
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestDecodeReadsRoleAndExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	claims, err := Decode(signToken(t, true, exp))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !claims.Admin {
		t.Fatal("admin claim lost")
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Fatalf("exp = %v, want %v", claims.ExpiresAt, exp)
	}
}

func TestGateRoutes(t *testing.T) {
	now := time.Now()

	t.Run("no token goes to login", func(t *testing.T) {
		store := newStore(t)
		route, err := store.Gate(now)
		if err != nil {
			t.Fatalf("gate: %v", err)
		}
		if route != RouteLogin {
			t.Fatalf("route = %v, want login", route)
		}
	})

	t.Run("expired token is cleared and goes to login", func(t *testing.T) {
		store := newStore(t)
		if err := store.Save(signToken(t, false, now.Add(-time.Minute))); err != nil {
			t.Fatalf("save: %v", err)
		}
		route, err := store.Gate(now)
		if err != nil {
			t.Fatalf("gate: %v", err)
		}
		if route != RouteLogin {
			t.Fatalf("route = %v, want login", route)
		}
		if _, err := store.Token(); !errors.Is(err, ErrNoSession) {
			t.Fatal("expired token was not cleared")
		}
	})

	t.Run("undecodable token is cleared and goes to login", func(t *testing.T) {
		store := newStore(t)
		if err := store.Save("not-a-jwt"); err != nil {
			t.Fatalf("save: %v", err)
		}
		route, err := store.Gate(now)
		if err != nil {
			t.Fatalf("gate: %v", err)
		}
		if route != RouteLogin {
			t.Fatalf("route = %v, want login", route)
		}
		if _, err := store.Token(); !errors.Is(err, ErrNoSession) {
			t.Fatal("broken token was not cleared")
		}
	})

	t.Run("role claim picks the dashboard", func(t *testing.T) {
		store := newStore(t)
		if err := store.Save(signToken(t, true, now.Add(time.Hour))); err != nil {
			t.Fatalf("save: %v", err)
		}
		route, err := store.Gate(now)
		if err != nil {
			t.Fatalf("gate: %v", err)
		}
		if route != RouteAdmin {
			t.Fatalf("route = %v, want admin", route)
		}

		if err := store.Save(signToken(t, false, now.Add(time.Hour))); err != nil {
			t.Fatalf("save: %v", err)
		}
		route, err = store.Gate(now)
		if err != nil {
			t.Fatalf("gate: %v", err)
		}
		if route != RouteUser {
			t.Fatalf("route = %v, want user", route)
		}
	})
}
