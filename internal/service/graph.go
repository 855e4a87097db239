package service

import (
	"context"
	"log/slog"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	domainerrors "github.com/musicgraph/musicgraph-server/internal/errors"
	"github.com/musicgraph/musicgraph-server/internal/graph"
	"github.com/musicgraph/musicgraph-server/internal/logger"
	"github.com/musicgraph/musicgraph-server/internal/store"
)

// GraphService assembles the read-only graph view.
type GraphService struct {
	store  store.Reader
	logger *slog.Logger
}

// NewGraphService creates a new graph service.
func NewGraphService(store store.Reader, log *slog.Logger) *GraphService {
	return &GraphService{store: store, logger: logger.OrDiscard(log)}
}

// Snapshot is every genre and band plus the derived connections.
type Snapshot struct {
	Mode        graph.Mode      `json:"mode"`
	Genres      []*domain.Genre `json:"genres"`
	Bands       []*domain.Band  `json:"bands"`
	Connections []graph.Edge    `json:"connections"`
}

// Snapshot reads the whole graph. Unknown modes fall back to the primary
// parent view.
func (s *GraphService) Snapshot(ctx context.Context, mode graph.Mode) (*Snapshot, error) {
	if mode != graph.ModeAll {
		mode = graph.ModePrimary
	}

	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}
	bands, err := s.store.ListBands(ctx)
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}

	edges := graph.ConnectionsFor(mode, genres)
	s.logger.Debug("graph snapshot built",
		"mode", mode,
		"genres", len(genres),
		"bands", len(bands),
		"connections", len(edges),
	)
	return &Snapshot{
		Mode:        mode,
		Genres:      genres,
		Bands:       bands,
		Connections: edges,
	}, nil
}

// Connections returns only the derived edges.
func (s *GraphService) Connections(ctx context.Context, mode graph.Mode) ([]graph.Edge, error) {
	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}
	return graph.ConnectionsFor(mode, genres), nil
}
