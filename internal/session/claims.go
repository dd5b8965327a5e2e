package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSession = errors.New("session: not logged in")

// Claims are the access-token fields the client reads. The signature is not
// verified here; the API server does that on every request.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// User returns userId, falling back to the registered sub claim.
func (c *Claims) User() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.RegisteredClaims.Subject
}

// Expired reports whether the token carries an exp claim at or before now.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time)
}

// ParseClaims decodes the claims of an access token.
func ParseClaims(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoSession
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("session: parse token: %w", err)
	}
	return claims, nil
}

// Authenticated reports whether the store holds a decodable, unexpired access
// token.
func Authenticated(s Store, now time.Time) bool {
	token, ok := s.Get(AccessTokenKey)
	if !ok {
		return false
	}
	claims, err := ParseClaims(token)
	if err != nil {
		return false
	}
	return !claims.Expired(now)
}

// CurrentUserID returns the user id carried by the stored access token.
func CurrentUserID(s Store) (string, error) {
	token, ok := s.Get(AccessTokenKey)
	if !ok {
		return "", ErrNoSession
	}
	claims, err := ParseClaims(token)
	if err != nil {
		return "", err
	}
	if id := claims.User(); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("session: token carries no user id")
}
