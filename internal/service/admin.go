package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/musicgraph/musicgraph-server/internal/auth"
	"github.com/musicgraph/musicgraph-server/internal/domain"
	domainerrors "github.com/musicgraph/musicgraph-server/internal/errors"
	"github.com/musicgraph/musicgraph-server/internal/id"
	"github.com/musicgraph/musicgraph-server/internal/logger"
	"github.com/musicgraph/musicgraph-server/internal/store"
	"github.com/musicgraph/musicgraph-server/internal/validation"
)

// SelfRevokeMessage is returned when an admin tries to toggle their own flag.
const SelfRevokeMessage = "You cannot revoke your own admin privileges"

// AdminService handles user management: listing, creating, and toggling
// the admin flag.
type AdminService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(store store.Store, log *slog.Logger) *AdminService {
	return &AdminService{
		store:     store,
		validator: validation.New(),
		logger:    logger.OrDiscard(log),
	}
}

// CreateUserRequest contains the fields for a new account.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	IsAdmin  bool   `json:"is_admin"`
}

// ListUsers returns every user.
func (s *AdminService) ListUsers(ctx context.Context, principal *domain.Principal) ([]*domain.User, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}
	return users, nil
}

// CreateUser creates an account on behalf of an admin.
func (s *AdminService) CreateUser(ctx context.Context, principal *domain.Principal, req CreateUserRequest) (*domain.User, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	user, err := s.createUser(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", "user_id", user.ID, "username", user.Username, "is_admin", user.IsAdmin, "by", principal.Username)
	return user, nil
}

// RegisterUser creates an account without a principal. It backs the
// operator CLI and is not reachable over HTTP.
func (s *AdminService) RegisterUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	user, err := s.createUser(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username, "is_admin", user.IsAdmin)
	return user, nil
}

// BootstrapAdmin creates an admin account when the store has no users.
// It reports whether an account was created.
func (s *AdminService) BootstrapAdmin(ctx context.Context, req CreateUserRequest) (bool, error) {
	n, err := s.store.CountUsers(ctx)
	if err != nil {
		return false, domainerrors.Persistence(err)
	}
	if n > 0 {
		return false, nil
	}
	req.IsAdmin = true
	user, err := s.createUser(ctx, req)
	if err != nil {
		return false, err
	}
	s.logger.Info("bootstrapped admin user", "user_id", user.ID, "username", user.Username)
	return true, nil
}

// ToggleAdmin flips target's admin flag and returns the new value.
// An admin may not toggle their own flag; the check compares identity.
func (s *AdminService) ToggleAdmin(ctx context.Context, principal *domain.Principal, targetID string) (bool, error) {
	if err := requireAdmin(principal); err != nil {
		return false, err
	}
	if principal.Is(targetID) {
		return false, domainerrors.Forbidden(SelfRevokeMessage)
	}

	var flag bool
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		user, err := tx.GetUser(ctx, targetID)
		if err != nil {
			return readError(err, userNotFound(targetID))
		}
		user.IsAdmin = !user.IsAdmin
		user.Touch()
		flag = user.IsAdmin
		return tx.UpdateUser(ctx, user)
	})
	if err := txError(err); err != nil {
		return false, err
	}

	s.logger.Info("admin flag toggled", "user_id", targetID, "is_admin", flag, "by", principal.Username)
	return flag, nil
}

// SetAdmin sets the admin flag of the named user. It reports whether the
// flag changed. This is the operator CLI path and carries no principal.
func (s *AdminService) SetAdmin(ctx context.Context, username string, isAdmin bool) (*domain.User, bool, error) {
	var (
		user    *domain.User
		changed bool
	)
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		u, err := tx.GetUserByUsername(ctx, username)
		if err != nil {
			return readError(err, domainerrors.NotFoundf("User '%s' not found", username))
		}
		user = u
		if u.IsAdmin == isAdmin {
			return nil
		}
		u.IsAdmin = isAdmin
		u.Touch()
		changed = true
		return tx.UpdateUser(ctx, u)
	})
	if err := txError(err); err != nil {
		return nil, false, err
	}
	if changed {
		s.logger.Info("admin flag set", "username", username, "is_admin", isAdmin)
	}
	return user, changed, nil
}

func (s *AdminService) createUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, domainerrors.Internal("failed to generate user ID")
	}

	user := &domain.User{
		Syncable:     domain.Syncable{ID: userID},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		IsAdmin:      req.IsAdmin,
	}
	user.InitTimestamps()

	err = s.store.InTx(ctx, func(tx store.Tx) error {
		var c domainerrors.Collector
		if _, err := tx.GetUserByUsername(ctx, req.Username); err == nil {
			c.Addf("Username '%s' is already taken", req.Username)
		} else if !store.IsNotFound(err) {
			return err
		}
		if _, err := tx.GetUserByEmail(ctx, req.Email); err == nil {
			c.Addf("Email '%s' is already registered", req.Email)
		} else if !store.IsNotFound(err) {
			return err
		}
		if err := c.Err(); err != nil {
			return err
		}
		return tx.CreateUser(ctx, user)
	})
	if err := txError(err); err != nil {
		return nil, err
	}
	return user, nil
}

func userNotFound(id string) *domainerrors.Error {
	return domainerrors.NotFoundf("User '%s' not found", id)
}
