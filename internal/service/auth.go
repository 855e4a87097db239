package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/musicgraph/musicgraph-server/internal/auth"
	"github.com/musicgraph/musicgraph-server/internal/domain"
	domainerrors "github.com/musicgraph/musicgraph-server/internal/errors"
	"github.com/musicgraph/musicgraph-server/internal/logger"
	"github.com/musicgraph/musicgraph-server/internal/store"
	"github.com/musicgraph/musicgraph-server/internal/validation"
)

// invalidCredentialsMessage is shared by every login failure so that the
// response does not reveal whether the username exists.
const invalidCredentialsMessage = "Invalid username or password"

// AuthService handles login, token refresh and access-token verification.
// Session storage is delegated to SessionService.
type AuthService struct {
	store          store.Store
	tokenService   *auth.TokenService
	sessionService *SessionService
	validator      *validation.Validator
	logger         *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		tokenService:   tokenService,
		sessionService: sessionService,
		validator:      validation.New(),
		logger:         logger.OrDiscard(log),
	}
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username string     `json:"username" validate:"required,max=64"`
	Password string     `json:"password" validate:"required,max=1024"`
	Client   ClientInfo `json:"-"` // Extracted from request by handler
}

// RefreshRequest contains the refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string     `json:"refresh_token" validate:"required"`
	Client       ClientInfo `json:"-"`
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// Login authenticates a user by username and password and opens a session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if store.IsNotFound(err) {
			auth.VerifyDummy(req.Password)
			return nil, domainerrors.InvalidCredentials(invalidCredentialsMessage)
		}
		return nil, domainerrors.Persistence(err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.logger.Info("login failed", "username", req.Username, "ip", req.Client.IPAddress)
		return nil, domainerrors.InvalidCredentials(invalidCredentialsMessage)
	}

	err = s.store.InTx(ctx, func(tx store.Tx) error {
		user.LastLoginAt = time.Now()
		user.Touch()
		return tx.UpdateUser(ctx, user)
	})
	if err != nil {
		// Log but don't fail login
		s.logger.Warn("failed to update last login time", "user_id", user.ID, "error", err)
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.Client)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username, "ip", req.Client.IPAddress)

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// RefreshTokens rotates a refresh token and returns fresh tokens.
func (s *AuthService) RefreshTokens(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sessionResp, user, err := s.sessionService.RefreshSession(ctx, req.RefreshToken, req.Client)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Logout ends the session that holds refreshToken.
func (s *AuthService) Logout(ctx context.Context, principal *domain.Principal, refreshToken string) error {
	if principal == nil {
		return domainerrors.Unauthorized("Authentication required")
	}
	if refreshToken == "" {
		return s.sessionService.RevokeUserSessions(ctx, principal.UserID)
	}
	return s.sessionService.RevokeRefreshToken(ctx, refreshToken)
}

// VerifyAccessToken checks an access token and returns the caller's current
// principal. The user is re-read so that a revoked admin flag or a deleted
// account takes effect before the token expires.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.Unauthorized("invalid or expired token")
		}
		return nil, domainerrors.Persistence(err)
	}

	return user.Principal(), nil
}

// CurrentUser returns the user behind principal.
func (s *AuthService) CurrentUser(ctx context.Context, principal *domain.Principal) (*domain.User, error) {
	if principal == nil {
		return nil, domainerrors.Unauthorized("Authentication required")
	}
	user, err := s.store.GetUser(ctx, principal.UserID)
	if err != nil {
		return nil, readError(err, domainerrors.NotFoundf("User '%s' not found", principal.UserID))
	}
	return user, nil
}
