// Package store defines the persistence interface for the MusicGraph server.
package store

import (
	"context"
	"time"

	"github.com/musicgraph/musicgraph-server/internal/domain"
)

// Reader holds the read operations available both inside and outside a transaction.
type Reader interface {
	// Genres
	GetGenre(ctx context.Context, id string) (*domain.Genre, error)
	GetGenresByIDs(ctx context.Context, ids []string) ([]*domain.Genre, error)
	ListGenres(ctx context.Context) ([]*domain.Genre, error)
	ListGenreChildren(ctx context.Context, id string) ([]*domain.Genre, error)
	GenreExists(ctx context.Context, id string) (bool, error)
	CountGenres(ctx context.Context) (int, error)

	// Bands
	GetBand(ctx context.Context, id string) (*domain.Band, error)
	ListBands(ctx context.Context) ([]*domain.Band, error)
	ListBandsByPrimaryGenre(ctx context.Context, genreID string) ([]*domain.Band, error)
	ListBandsByGenre(ctx context.Context, genreID string) ([]*domain.Band, error)
	BandExists(ctx context.Context, id string) (bool, error)

	// Users
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// Tx is a unit of work. Writes are only visible to other callers once the
// enclosing InTx returns nil.
type Tx interface {
	Reader

	// CreateGenre inserts the genre row and its parent set.
	CreateGenre(ctx context.Context, g *domain.Genre) error
	// UpdateGenre updates name, type, and primary parent.
	UpdateGenre(ctx context.Context, g *domain.Genre) error
	// SetGenreParents replaces the genre's full parent set.
	SetGenreParents(ctx context.Context, genreID string, parentIDs []string) error
	// DeleteGenre removes the genre and every parent-set edge that names it
	// as child or parent.
	DeleteGenre(ctx context.Context, id string) error

	// CreateBand inserts the band row and its genre set.
	CreateBand(ctx context.Context, b *domain.Band) error
	// UpdateBand updates name and primary genre.
	UpdateBand(ctx context.Context, b *domain.Band) error
	// SetBandGenres replaces the band's full genre set.
	SetBandGenres(ctx context.Context, bandID string, genreIDs []string) error
	// DeleteBand removes the band and its genre memberships.
	DeleteBand(ctx context.Context, id string) error

	CreateUser(ctx context.Context, u *domain.User) error
	UpdateUser(ctx context.Context, u *domain.User) error
}

// Store defines all persistence operations.
type Store interface {
	Reader

	// InTx runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back when fn returns an error or panics.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// SearchIndexer keeps the search index in sync with committed writes.
type SearchIndexer interface {
	IndexGenre(ctx context.Context, g *domain.Genre) error
	DeleteGenre(ctx context.Context, id string) error
	IndexBand(ctx context.Context, b *domain.Band) error
	DeleteBand(ctx context.Context, id string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexGenre is a no-op.
func (NoopSearchIndexer) IndexGenre(context.Context, *domain.Genre) error { return nil }

// DeleteGenre is a no-op.
func (NoopSearchIndexer) DeleteGenre(context.Context, string) error { return nil }

// IndexBand is a no-op.
func (NoopSearchIndexer) IndexBand(context.Context, *domain.Band) error { return nil }

// DeleteBand is a no-op.
func (NoopSearchIndexer) DeleteBand(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer for testing.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}
