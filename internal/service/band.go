package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	domainerrors "github.com/musicgraph/musicgraph-server/internal/errors"
	"github.com/musicgraph/musicgraph-server/internal/genre"
	"github.com/musicgraph/musicgraph-server/internal/logger"
	"github.com/musicgraph/musicgraph-server/internal/store"
)

// BandService orchestrates band operations.
type BandService struct {
	store   store.Store
	indexer store.SearchIndexer
	logger  *slog.Logger
}

// NewBandService creates a new band service.
func NewBandService(store store.Store, indexer store.SearchIndexer, log *slog.Logger) *BandService {
	return &BandService{
		store:   store,
		indexer: indexerOrNoop(indexer),
		logger:  logger.OrDiscard(log),
	}
}

// BandRequest carries the fields of a band create or update.
// On update the ID comes from the path and any body ID is ignored.
type BandRequest struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	PrimaryGenreID string   `json:"primary_genre_id"`
	GenreIDs       []string `json:"genre_ids"`
}

func (r BandRequest) normalize() BandRequest {
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	r.PrimaryGenreID = strings.TrimSpace(r.PrimaryGenreID)
	r.GenreIDs = domain.NormalizeIDs(r.GenreIDs)
	return r
}

// ListBands returns every band ordered by ID.
func (s *BandService) ListBands(ctx context.Context) ([]*domain.Band, error) {
	bands, err := s.store.ListBands(ctx)
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}
	return bands, nil
}

// ListBandsByGenre returns the bands tagged with genreID.
func (s *BandService) ListBandsByGenre(ctx context.Context, genreID string) ([]*domain.Band, error) {
	bands, err := s.store.ListBandsByGenre(ctx, genreID)
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}
	return bands, nil
}

// GetBand returns a single band.
func (s *BandService) GetBand(ctx context.Context, id string) (*domain.Band, error) {
	b, err := s.store.GetBand(ctx, id)
	if err != nil {
		return nil, readError(err, bandNotFound(id))
	}
	return b, nil
}

// CreateBand validates and inserts a band with its genre set.
func (s *BandService) CreateBand(ctx context.Context, principal *domain.Principal, req BandRequest) (*domain.Band, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	req = req.normalize()

	var created *domain.Band
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		if err := validateBand(ctx, tx, req, true); err != nil {
			return err
		}

		b := &domain.Band{
			Syncable:       domain.Syncable{ID: req.ID},
			Name:           req.Name,
			PrimaryGenreID: req.PrimaryGenreID,
			GenreIDs:       req.GenreIDs,
		}
		b.InitTimestamps()

		if err := tx.CreateBand(ctx, b); err != nil {
			if store.IsAlreadyExists(err) {
				return domainerrors.Validation(fmt.Sprintf("Band ID '%s' already exists", req.ID))
			}
			return err
		}
		created = b
		return nil
	})
	if err := txError(err); err != nil {
		return nil, err
	}

	reindexBands(ctx, s.indexer, s.logger, created)
	s.logger.Info("band created",
		"id", created.ID,
		"primary_genre", created.PrimaryGenreID,
		"genres", created.GenreIDs,
		"by", principal.Username,
	)
	return created, nil
}

// UpdateBand validates and applies a new name, primary genre and genre set.
// The genre set replaces the band's membership in the same transaction.
func (s *BandService) UpdateBand(ctx context.Context, principal *domain.Principal, id string, req BandRequest) (*domain.Band, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	req.ID = id
	req = req.normalize()

	var updated *domain.Band
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		existing, err := tx.GetBand(ctx, req.ID)
		if err != nil {
			return readError(err, bandNotFound(req.ID))
		}

		if err := validateBand(ctx, tx, req, false); err != nil {
			return err
		}

		existing.Name = req.Name
		existing.PrimaryGenreID = req.PrimaryGenreID
		existing.GenreIDs = req.GenreIDs
		existing.Touch()

		if err := tx.UpdateBand(ctx, existing); err != nil {
			return err
		}
		if err := tx.SetBandGenres(ctx, existing.ID, existing.GenreIDs); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err := txError(err); err != nil {
		return nil, err
	}

	reindexBands(ctx, s.indexer, s.logger, updated)
	s.logger.Info("band updated",
		"id", updated.ID,
		"primary_genre", updated.PrimaryGenreID,
		"genres", updated.GenreIDs,
		"by", principal.Username,
	)
	return updated, nil
}

// DeleteBand removes a band and its genre memberships. Nothing references a
// band, so there is no precondition beyond existence.
func (s *BandService) DeleteBand(ctx context.Context, principal *domain.Principal, id string) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}

	err := s.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.GetBand(ctx, id); err != nil {
			return readError(err, bandNotFound(id))
		}
		return tx.DeleteBand(ctx, id)
	})
	if err := txError(err); err != nil {
		return err
	}

	if err := s.indexer.DeleteBand(ctx, id); err != nil {
		s.logger.Warn("failed to remove band from search index", "band_id", id, "error", err)
	}
	s.logger.Info("band deleted", "id", id, "by", principal.Username)
	return nil
}

// validateBand runs every band check and reports all failures together.
func validateBand(ctx context.Context, r store.Reader, req BandRequest, creating bool) error {
	var c domainerrors.Collector

	c.Check(req.ID != "", "ID is required")
	c.Check(req.Name != "", "Name is required")
	c.Check(req.PrimaryGenreID != "", "Primary genre is required")
	c.Check(len(req.GenreIDs) > 0, "At least one genre must be selected")

	if creating && req.ID != "" {
		exists, err := r.BandExists(ctx, req.ID)
		if err != nil {
			return err
		}
		if exists {
			c.Addf("Band ID '%s' already exists", req.ID)
		}
	}

	if req.PrimaryGenreID != "" {
		primary, err := r.GetGenre(ctx, req.PrimaryGenreID)
		switch {
		case store.IsNotFound(err):
			c.Addf("Primary genre '%s' does not exist", req.PrimaryGenreID)
		case err != nil:
			return err
		case !primary.IsLeaf():
			c.Addf("Primary genre must be a 'leaf' genre. '%s' is type '%s'", primary.Name, primary.Type)
		}

		if !slices.Contains(req.GenreIDs, req.PrimaryGenreID) {
			c.Add("Primary genre must be one of the selected genres")
		}
	}

	for _, g := range req.GenreIDs {
		if g == req.PrimaryGenreID {
			continue
		}
		exists, err := r.GenreExists(ctx, g)
		if err != nil {
			return err
		}
		if !exists {
			c.Addf("Genre '%s' does not exist", g)
		}
	}

	if creating && req.ID != "" && !genre.ValidID(req.ID) {
		c.Add("ID must contain only lowercase letters, numbers, and hyphens")
	}

	return c.Err()
}

func bandNotFound(id string) *domainerrors.Error {
	return domainerrors.NotFoundf("Band '%s' not found", id)
}
