package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/musicgraph/musicgraph-server/internal/service"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminListUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/users",
		Summary:     "List users",
		Description: "Lists all users (admin only)",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID:   "adminCreateUser",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/users",
		Summary:       "Create user",
		Description:   "Creates a user account (admin only)",
		Tags:          []string{"Admin"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleAdminCreateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminToggleAdmin",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/users/{id}/toggle-admin",
		Summary:     "Toggle admin",
		Description: "Flips a user's admin flag (admin only). Admins cannot toggle themselves.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminToggleAdmin)
}

// === DTOs ===

// CreateUserRequest is the body of an admin user creation.
type CreateUserRequest struct {
	Username string `json:"username,omitempty" doc:"Username"`
	Email    string `json:"email,omitempty" doc:"Email address"`
	Password string `json:"password,omitempty" doc:"Initial password"`
	IsAdmin  bool   `json:"is_admin,omitempty" doc:"Grant admin privileges"`
}

type CreateUserInput struct {
	Body CreateUserRequest
}

type ListUsersOutput struct {
	Body []UserResponse
}

type ToggleAdminInput struct {
	ID string `path:"id" doc:"User ID"`
}

// ToggleAdminResponse reports the flag after the toggle.
type ToggleAdminResponse struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

type ToggleAdminOutput struct {
	Body ToggleAdminResponse
}

// === Handlers ===

func (s *Server) handleAdminListUsers(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
	users, err := s.services.Admin.ListUsers(ctx, PrincipalFrom(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = mapUser(u)
	}
	return &ListUsersOutput{Body: out}, nil
}

func (s *Server) handleAdminCreateUser(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
	user, err := s.services.Admin.CreateUser(ctx, PrincipalFrom(ctx), service.CreateUserRequest{
		Username: input.Body.Username,
		Email:    input.Body.Email,
		Password: input.Body.Password,
		IsAdmin:  input.Body.IsAdmin,
	})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleAdminToggleAdmin(ctx context.Context, input *ToggleAdminInput) (*ToggleAdminOutput, error) {
	isAdmin, err := s.services.Admin.ToggleAdmin(ctx, PrincipalFrom(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &ToggleAdminOutput{Body: ToggleAdminResponse{UserID: input.ID, IsAdmin: isAdmin}}, nil
}
