// Package service holds the MusicGraph business logic.
//
// Every mutating operation takes the calling *domain.Principal explicitly and
// checks it with requireAdmin before touching the store. Mutations then run
// their validation and writes inside a single store.InTx unit of work.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	domainerrors "github.com/musicgraph/musicgraph-server/internal/errors"
	"github.com/musicgraph/musicgraph-server/internal/store"
)

// requireAdmin is the access gate for mutations.
// A nil principal is UNAUTHORIZED; a non-admin is FORBIDDEN.
func requireAdmin(p *domain.Principal) error {
	if p == nil {
		return domainerrors.Unauthorized("Authentication required")
	}
	if !p.IsAdmin {
		return domainerrors.Forbidden("Administrator privileges required")
	}
	return nil
}

// txError converts the result of store.InTx for callers. Domain errors pass
// through; anything else is a store failure and becomes a PersistenceError.
func txError(err error) error {
	if err == nil {
		return nil
	}
	var de *domainerrors.Error
	if errors.As(err, &de) {
		return err
	}
	return domainerrors.Persistence(err)
}

// readError maps a store read failure to a domain error.
func readError(err error, notFound *domainerrors.Error) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound
	}
	return domainerrors.Persistence(err)
}

// reindexGenres pushes committed genres to the search index. Failures are
// logged only; the store is the source of truth and Reindex repairs drift.
func reindexGenres(ctx context.Context, indexer store.SearchIndexer, log *slog.Logger, genres ...*domain.Genre) {
	for _, g := range genres {
		if err := indexer.IndexGenre(ctx, g); err != nil {
			log.Warn("failed to index genre", "genre_id", g.ID, "error", err)
		}
	}
}

func reindexBands(ctx context.Context, indexer store.SearchIndexer, log *slog.Logger, bands ...*domain.Band) {
	for _, b := range bands {
		if err := indexer.IndexBand(ctx, b); err != nil {
			log.Warn("failed to index band", "band_id", b.ID, "error", err)
		}
	}
}

func indexerOrNoop(indexer store.SearchIndexer) store.SearchIndexer {
	if indexer == nil {
		return store.NewNoopSearchIndexer()
	}
	return indexer
}
