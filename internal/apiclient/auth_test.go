package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optionslab/optionslab-client/internal/session"
)

func TestLoginStoresTokens(t *testing.T) {
	var got Credentials
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(t, w, http.StatusOK, AuthTokens{AccessToken: "access", RefreshToken: "refresh"})
	})

	tokens, err := client.Login(context.Background(), Credentials{Email: "ana@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "access", tokens.AccessToken)
	assert.Equal(t, "ana@example.com", got.Email)

	v, _ := store.Get(session.AccessTokenKey)
	assert.Equal(t, "access", v)
	v, _ = store.Get(session.RefreshTokenKey)
	assert.Equal(t, "refresh", v)
}

func TestLoginWithoutAccessTokenFails(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{})
	})

	_, err := client.Login(context.Background(), Credentials{Email: "a", Password: "b"})
	require.Error(t, err)
	_, ok := store.Get(session.AccessTokenKey)
	assert.False(t, ok)
}

func TestRegisterStoresTokens(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)
		writeJSON(t, w, http.StatusCreated, AuthTokens{AccessToken: "new-access"})
	})

	_, err := client.Register(context.Background(), Registration{Name: "Ana", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	v, _ := store.Get(session.AccessTokenKey)
	assert.Equal(t, "new-access", v)
}

func TestRefreshTokenKeepsOldRefreshWhenOmitted(t *testing.T) {
	var body map[string]string
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/refresh", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, http.StatusOK, AuthTokens{AccessToken: "fresh"})
	})
	require.NoError(t, store.Set(session.RefreshTokenKey, "r1"))

	_, err := client.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r1", body["refreshToken"])
	v, _ := store.Get(session.AccessTokenKey)
	assert.Equal(t, "fresh", v)
	v, _ = store.Get(session.RefreshTokenKey)
	assert.Equal(t, "r1", v)
}

func TestRefreshTokenWithoutSession(t *testing.T) {
	client, _ := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected")
	})
	_, err := client.RefreshToken(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestLogoutClearsEvenOnFailure(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"error": "down"})
	})
	require.NoError(t, store.Set(session.AccessTokenKey, "a"))
	require.NoError(t, store.Set(session.RefreshTokenKey, "r"))

	err := client.Logout(context.Background())
	require.Error(t, err)
	_, ok := store.Get(session.AccessTokenKey)
	assert.False(t, ok)
}

func TestLogoutIgnoresUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	require.NoError(t, client.Logout(context.Background()))
}
