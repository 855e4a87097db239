package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	"github.com/musicgraph/musicgraph-server/internal/store"
)

func makeTestUser(id, username string, admin bool) *domain.User {
	now := time.Now()
	return &domain.User{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$hash",
		IsAdmin:      admin,
	}
}

func createTestUser(t *testing.T, s *Store, u *domain.User) {
	t.Helper()
	mustTx(t, s, func(tx store.Tx) error { return tx.CreateUser(context.Background(), u) })
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, makeTestUser("user-1", "Alice", true))

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "Alice" {
		t.Errorf("Username: got %q", got.Username)
	}
	if !got.IsAdmin {
		t.Error("IsAdmin: want true")
	}
	if !got.LastLoginAt.IsZero() {
		t.Errorf("LastLoginAt: want zero, got %v", got.LastLoginAt)
	}

	byName, err := s.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if byName.ID != "user-1" {
		t.Errorf("GetUserByUsername: got %q", byName.ID)
	}

	byEmail, err := s.GetUserByEmail(ctx, "ALICE@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != "user-1" {
		t.Errorf("GetUserByEmail: got %q", byEmail.ID)
	}

	if _, err := s.GetUser(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, makeTestUser("user-1", "alice", false))

	dup := makeTestUser("user-2", "ALICE", false)
	dup.Email = "other@example.com"
	err := s.InTx(ctx, func(tx store.Tx) error { return tx.CreateUser(ctx, dup) })
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, makeTestUser("user-1", "alice", false))

	login := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mustTx(t, s, func(tx store.Tx) error {
		u, err := tx.GetUser(ctx, "user-1")
		if err != nil {
			return err
		}
		u.IsAdmin = true
		u.LastLoginAt = login
		u.Touch()
		return tx.UpdateUser(ctx, u)
	})

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if !got.IsAdmin {
		t.Error("IsAdmin not updated")
	}
	if !got.LastLoginAt.Equal(login) {
		t.Errorf("LastLoginAt: got %v, want %v", got.LastLoginAt, login)
	}
}

func TestListAndCountUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, makeTestUser("user-2", "bob", false))
	createTestUser(t, s, makeTestUser("user-1", "Alice", true))

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Username != "Alice" || users[1].Username != "bob" {
		t.Errorf("order: got %s, %s", users[0].Username, users[1].Username)
	}

	n, err := s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if n != 2 {
		t.Errorf("CountUsers: got %d", n)
	}
}
