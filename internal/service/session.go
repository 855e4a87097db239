package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/musicgraph/musicgraph-server/internal/auth"
	"github.com/musicgraph/musicgraph-server/internal/domain"
	domainerrors "github.com/musicgraph/musicgraph-server/internal/errors"
	"github.com/musicgraph/musicgraph-server/internal/id"
	"github.com/musicgraph/musicgraph-server/internal/logger"
	"github.com/musicgraph/musicgraph-server/internal/store"
)

// SessionService handles refresh-token sessions and their lifecycle.
type SessionService struct {
	store        store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
	now          func() time.Time
}

// NewSessionService creates a new session management service.
func NewSessionService(
	store store.Store,
	tokenService *auth.TokenService,
	log *slog.Logger,
) *SessionService {
	return &SessionService{
		store:        store,
		tokenService: tokenService,
		logger:       logger.OrDiscard(log),
		now:          time.Now,
	}
}

// ClientInfo identifies the client a session was opened from.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// SessionResponse contains session tokens and metadata.
type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // Seconds until access token expires
	SessionID    string `json:"session_id"`
}

// CreateSession issues an access token and a refresh token for user and
// records the session.
func (s *SessionService) CreateSession(ctx context.Context, user *domain.User, client ClientInfo) (*SessionResponse, error) {
	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := s.now()
	session := &domain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        now.Add(s.tokenService.RefreshTokenDuration()),
		CreatedAt:        now,
		LastSeenAt:       now,
		IPAddress:        client.IPAddress,
		UserAgent:        client.UserAgent,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, domainerrors.Persistence(err)
	}

	return s.response(accessToken, refreshToken, sessionID), nil
}

// RefreshSession rotates the refresh token of an existing session and issues
// a new access token. The presented refresh token stops working.
func (s *SessionService) RefreshSession(ctx context.Context, refreshToken string, client ClientInfo) (*SessionResponse, *domain.User, error) {
	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil, domainerrors.TokenExpired("invalid or expired refresh token")
		}
		return nil, nil, domainerrors.Persistence(err)
	}

	now := s.now()
	if session.IsExpired(now) {
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, nil, domainerrors.TokenExpired("invalid or expired refresh token")
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		// User was deleted, clean up session
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, nil, domainerrors.Unauthorized("user no longer exists").WithCause(err)
	}

	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	newRefreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, nil, fmt.Errorf("generate refresh token: %w", err)
	}

	session.RefreshTokenHash = auth.HashRefreshToken(newRefreshToken)
	session.ExpiresAt = now.Add(s.tokenService.RefreshTokenDuration())
	session.LastSeenAt = now
	if client.IPAddress != "" {
		session.IPAddress = client.IPAddress
	}
	if client.UserAgent != "" {
		session.UserAgent = client.UserAgent
	}

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, nil, domainerrors.Persistence(err)
	}

	return s.response(accessToken, newRefreshToken, session.ID), user, nil
}

// RevokeRefreshToken ends the session holding refreshToken. Unknown tokens
// are ignored so logout is idempotent.
func (s *SessionService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if store.IsNotFound(err) {
			return nil
		}
		return domainerrors.Persistence(err)
	}
	if err := s.store.DeleteSession(ctx, session.ID); err != nil {
		return domainerrors.Persistence(err)
	}
	s.logger.Info("session deleted", "session_id", session.ID, "user_id", session.UserID)
	return nil
}

// RevokeUserSessions ends every session of userID.
func (s *SessionService) RevokeUserSessions(ctx context.Context, userID string) error {
	if err := s.store.DeleteUserSessions(ctx, userID); err != nil {
		return domainerrors.Persistence(err)
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions.
// The session cleanup job runs it periodically.
func (s *SessionService) DeleteExpiredSessions(ctx context.Context) (int, error) {
	count, err := s.store.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	if count > 0 {
		s.logger.Info("deleted expired sessions", "count", count)
	}
	return count, nil
}

func (s *SessionService) response(accessToken, refreshToken, sessionID string) *SessionResponse {
	return &SessionResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokenService.AccessTokenDuration().Seconds()),
		SessionID:    sessionID,
	}
}
