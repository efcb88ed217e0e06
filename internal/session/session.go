// Package session owns the single persisted bearer token and the
// start-up routing decision derived from its claims.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrNoSession means no token is stored on this device.
var ErrNoSession = errors.New("no stored session")

// Route is where the app sends the user after the auth gate.
type Route int

const (
	RouteLogin Route = iota
	RouteUser
	RouteAdmin
)

// Claims are the token fields the client routes on. The signature is the
// server's concern; the client never verifies it.
type Claims struct {
	Admin     bool
	ExpiresAt time.Time
}

// Store persists one bearer token as a file.
type Store struct {
	path string
}

// NewStore builds a store writing the token at path.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("token path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create token dir: %w", err)
	}
	return &Store{path: path}, nil
}

// Token returns the stored token or ErrNoSession.
func (s *Store) Token() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoSession
	}
	return token, nil
}

// Save stores the token, replacing any previous one.
func (s *Store) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("empty token")
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Decode extracts routing claims from a token without verifying its signature.
func Decode(token string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("decode token: %w", err)
	}
	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("unexpected claims type")
	}
	claims := Claims{}
	if admin, ok := mapClaims["isAdmin"].(bool); ok {
		claims.Admin = admin
	}
	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("decode exp claim: %w", err)
	}
	if exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}

// Gate implements the start-up auth check: absent, undecodable, or expired
// tokens land on the login screen (expired and broken ones are cleared);
// otherwise the role claim picks the dashboard.
func (s *Store) Gate(now time.Time) (Route, error) {
	token, err := s.Token()
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return RouteLogin, nil
		}
		return RouteLogin, err
	}
	claims, err := Decode(token)
	if err != nil {
		if clearErr := s.Clear(); clearErr != nil {
			return RouteLogin, clearErr
		}
		return RouteLogin, nil
	}
	if !claims.ExpiresAt.IsZero() && claims.ExpiresAt.Before(now) {
		if err := s.Clear(); err != nil {
			return RouteLogin, err
		}
		return RouteLogin, nil
	}
	if claims.Admin {
		return RouteAdmin, nil
	}
	return RouteUser, nil
}
