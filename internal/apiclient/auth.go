package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/optionslab/optionslab-client/internal/session"
)

// Login exchanges credentials for tokens and stores them.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthTokens, error) {
	var out AuthTokens
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", body: creds, result: &out}); err != nil {
		return nil, err
	}
	if err := c.saveTokens(out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and stores the tokens it returns.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthTokens, error) {
	var out AuthTokens
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/register", body: reg, result: &out}); err != nil {
		return nil, err
	}
	if err := c.saveTokens(out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshToken trades the stored refresh token for a new token pair.
func (c *Client) RefreshToken(ctx context.Context) (*AuthTokens, error) {
	refresh, ok := c.store.Get(session.RefreshTokenKey)
	if !ok || refresh == "" {
		return nil, session.ErrNoSession
	}
	var out AuthTokens
	body := map[string]string{"refreshToken": refresh}
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/refresh", body: body, result: &out}); err != nil {
		return nil, err
	}
	if out.RefreshToken == "" {
		out.RefreshToken = refresh
	}
	if err := c.saveTokens(out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tells the API to drop the session and clears local credentials even
// when the API call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/logout"})
	if clearErr := session.Clear(c.store); clearErr != nil {
		return fmt.Errorf("apiclient: clear session: %w", clearErr)
	}
	if errors.Is(err, ErrUnauthorized) {
		return nil
	}
	return err
}

func (c *Client) saveTokens(t AuthTokens) error {
	if t.AccessToken == "" {
		return fmt.Errorf("apiclient: auth response carried no access token")
	}
	if err := c.store.Set(session.AccessTokenKey, t.AccessToken); err != nil {
		return fmt.Errorf("apiclient: store access token: %w", err)
	}
	if t.RefreshToken != "" {
		if err := c.store.Set(session.RefreshTokenKey, t.RefreshToken); err != nil {
			return fmt.Errorf("apiclient: store refresh token: %w", err)
		}
	}
	return nil
}
