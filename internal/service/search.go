package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "github.com/musicgraph/musicgraph-server/internal/errors"
	"github.com/musicgraph/musicgraph-server/internal/logger"
	"github.com/musicgraph/musicgraph-server/internal/search"
	"github.com/musicgraph/musicgraph-server/internal/store"
)

// SearchService provides search over genres and bands.
type SearchService struct {
	index  *search.SearchIndex
	store  store.Reader
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store store.Reader, log *slog.Logger) *SearchService {
	return &SearchService{index: index, store: store, logger: logger.OrDiscard(log)}
}

// Search runs a query against the index.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	params.Query = strings.TrimSpace(params.Query)
	for _, k := range params.Kinds {
		if !k.Valid() {
			return nil, domainerrors.Validation("Kind must be one of: genre, band")
		}
	}

	start := time.Now()
	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Search failed")
	}

	s.logger.Debug("search completed",
		"query", params.Query,
		"hits", len(result.Hits),
		"total", result.Total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// Reindex rebuilds the index from the store.
func (s *SearchService) Reindex(ctx context.Context) error {
	start := time.Now()

	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return domainerrors.Persistence(err)
	}
	bands, err := s.store.ListBands(ctx)
	if err != nil {
		return domainerrors.Persistence(err)
	}

	if err := s.index.Rebuild(); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "Failed to rebuild search index")
	}

	docs := make([]*search.SearchDocument, 0, len(genres)+len(bands))
	for _, g := range genres {
		docs = append(docs, search.GenreToSearchDocument(g))
	}
	for _, b := range bands {
		docs = append(docs, search.BandToSearchDocument(b))
	}
	if err := s.index.IndexDocuments(docs); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "Failed to index documents")
	}

	s.logger.Info("search reindex complete",
		"genres", len(genres),
		"bands", len(bands),
		"duration", time.Since(start),
	)
	return nil
}

// IsEmpty reports whether the index holds no documents.
func (s *SearchService) IsEmpty() (bool, error) {
	n, err := s.index.DocumentCount()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}
