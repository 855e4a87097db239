package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"username": "admin",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var env testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Data.AccessToken)
	assert.NotEmpty(t, env.Data.RefreshToken)
	assert.Equal(t, "Bearer", env.Data.TokenType)
	assert.Positive(t, env.Data.ExpiresIn)
	assert.Equal(t, "admin", env.Data.User.Username)
	assert.True(t, env.Data.User.IsAdmin)
	assert.NotNil(t, env.Data.User.LastLoginAt)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := setupTestServer(t)

	for _, body := range []map[string]any{
		{"username": "admin", "password": "wrong-password"},
		{"username": "nobody", "password": testPassword},
	} {
		resp := ts.api.Post("/api/v1/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		env := decodeError(t, resp.Body.Bytes())
		assert.Equal(t, "INVALID_CREDENTIALS", env.Code)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	env := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Len(t, env.Details, 2)
}

func TestLogin_RateLimited(t *testing.T) {
	ts := setupTestServer(t, func(o *Options) {
		o.LoginRateLimit = 1
		o.LoginRateBurst = 2
	})

	body := map[string]any{"username": "admin", "password": "wrong-password"}
	for range 2 {
		resp := ts.api.Post("/api/v1/auth/login", body)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := ts.api.Post("/api/v1/auth/login", body)
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	env := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "RATE_LIMITED", env.Code)
	assert.Equal(t, "Too many login attempts. Please try again later.", env.Error)

	// Other endpoints are unaffected.
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/v1/genres").Code)
}

func TestRefresh_RotatesToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{"username": "listener", "password": testPassword})
	require.Equal(t, http.StatusOK, resp.Code)
	var login testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &login))

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{"refresh_token": login.Data.RefreshToken})
	require.Equal(t, http.StatusOK, resp.Code)
	var refreshed testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &refreshed))
	assert.NotEqual(t, login.Data.RefreshToken, refreshed.Data.RefreshToken)

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{"refresh_token": login.Data.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestMe(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t, "listener")

	resp := ts.api.Get("/api/v1/auth/me", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var env testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	assert.Equal(t, "listener", env.Data.Username)
	assert.False(t, env.Data.IsAdmin)
}

func TestMe_Anonymous(t *testing.T) {
	ts := setupTestServer(t)

	for _, args := range [][]any{nil, {bearer("not-a-token")}} {
		resp := ts.api.Get("/api/v1/auth/me", args...)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		env := decodeError(t, resp.Body.Bytes())
		assert.Equal(t, "UNAUTHORIZED", env.Code)
	}
}

func TestLogout_EndsSessions(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{"username": "listener", "password": testPassword})
	require.Equal(t, http.StatusOK, resp.Code)
	var login testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &login))

	resp = ts.api.Post("/api/v1/auth/logout", bearer(login.Data.AccessToken), map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{"refresh_token": login.Data.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
