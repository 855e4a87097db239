package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/musicgraph/musicgraph-server/internal/auth"
	"github.com/musicgraph/musicgraph-server/internal/domain"
	domainerrors "github.com/musicgraph/musicgraph-server/internal/errors"
	"github.com/musicgraph/musicgraph-server/internal/genre"
	"github.com/musicgraph/musicgraph-server/internal/store"
	"github.com/musicgraph/musicgraph-server/internal/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAdmin = &domain.Principal{UserID: "user-admin", Username: "admin", IsAdmin: true}
	testUser  = &domain.Principal{UserID: "user-plain", Username: "listener"}
)

// newTestStore opens an empty store in a temp directory.
func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// newSeededStore opens a store loaded with the default taxonomy.
func newSeededStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s := newTestStore(t)
	_, err := NewSeedService(s, nil, nil).SeedTaxonomy(context.Background(), genre.DefaultTaxonomy)
	require.NoError(t, err)
	return s
}

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	ts, err := auth.NewTokenService(key, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	return ts
}

// untouchableStore panics on any call. Gate tests use it to prove that a
// refused caller never reaches the store.
type untouchableStore struct {
	store.Store
}

func assertCode(t *testing.T, err error, code domainerrors.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, domainerrors.CodeOf(err), "error: %v", err)
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name      string
		principal *domain.Principal
		want      domainerrors.Code
	}{
		{"nil principal", nil, domainerrors.CodeUnauthorized},
		{"non-admin", testUser, domainerrors.CodeForbidden},
		{"admin", testAdmin, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := requireAdmin(tt.principal)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assertCode(t, err, tt.want)
		})
	}
}

func TestMutations_RefusedBeforeStoreAccess(t *testing.T) {
	ctx := context.Background()
	s := untouchableStore{}
	genres := NewGenreService(s, nil, GenreServiceOptions{RejectCycles: true}, nil)
	bands := NewBandService(s, nil, nil)
	admin := NewAdminService(s, nil)

	ops := map[string]func(p *domain.Principal) error{
		"create genre": func(p *domain.Principal) error {
			_, err := genres.CreateGenre(ctx, p, GenreRequest{ID: "jazz", Name: "Jazz", Type: "root"})
			return err
		},
		"update genre": func(p *domain.Principal) error {
			_, err := genres.UpdateGenre(ctx, p, "rock", GenreRequest{Name: "Rock", Type: "root"})
			return err
		},
		"delete genre": func(p *domain.Principal) error {
			return genres.DeleteGenre(ctx, p, "rock")
		},
		"create band": func(p *domain.Principal) error {
			_, err := bands.CreateBand(ctx, p, BandRequest{ID: "death", Name: "Death"})
			return err
		},
		"update band": func(p *domain.Principal) error {
			_, err := bands.UpdateBand(ctx, p, "death", BandRequest{Name: "Death"})
			return err
		},
		"delete band": func(p *domain.Principal) error {
			return bands.DeleteBand(ctx, p, "death")
		},
		"toggle admin": func(p *domain.Principal) error {
			_, err := admin.ToggleAdmin(ctx, p, "user-other")
			return err
		},
		"list users": func(p *domain.Principal) error {
			_, err := admin.ListUsers(ctx, p)
			return err
		},
		"create user": func(p *domain.Principal) error {
			_, err := admin.CreateUser(ctx, p, CreateUserRequest{Username: "x", Email: "x@example.com", Password: "password123"})
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { err = op(nil) })
			assertCode(t, err, domainerrors.CodeUnauthorized)

			require.NotPanics(t, func() { err = op(testUser) })
			assertCode(t, err, domainerrors.CodeForbidden)
		})
	}
}

func TestTxError(t *testing.T) {
	assert.NoError(t, txError(nil))

	domainErr := domainerrors.NotFound("Genre 'x' not found")
	assert.Same(t, domainErr, txError(domainErr))

	err := txError(errors.New("database is locked"))
	assertCode(t, err, domainerrors.CodeInternal)
	assert.Equal(t, []string{domainerrors.PersistenceMessage}, domainerrors.Messages(err))
}

func TestReadError(t *testing.T) {
	notFound := domainerrors.NotFound("Band 'x' not found")
	assert.Same(t, notFound, readError(store.ErrNotFound.WithCause(errors.New("no rows")), notFound))

	err := readError(errors.New("disk I/O error"), notFound)
	assertCode(t, err, domainerrors.CodeInternal)
}
