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
	"github.com/musicgraph/musicgraph-server/internal/graph"
	"github.com/musicgraph/musicgraph-server/internal/logger"
	"github.com/musicgraph/musicgraph-server/internal/store"
)

// GenreService orchestrates genre operations.
type GenreService struct {
	store        store.Store
	indexer      store.SearchIndexer
	rejectCycles bool
	logger       *slog.Logger
}

// GenreServiceOptions configures a GenreService.
type GenreServiceOptions struct {
	// RejectCycles enables the ancestor walk on update. The direct
	// self-parent check always runs.
	RejectCycles bool
}

// NewGenreService creates a new genre service.
func NewGenreService(store store.Store, indexer store.SearchIndexer, opts GenreServiceOptions, log *slog.Logger) *GenreService {
	return &GenreService{
		store:        store,
		indexer:      indexerOrNoop(indexer),
		rejectCycles: opts.RejectCycles,
		logger:       logger.OrDiscard(log),
	}
}

// GenreRequest carries the fields of a genre create or update.
// On update the ID comes from the path and any body ID is ignored.
type GenreRequest struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	ParentID  string   `json:"parent_id,omitempty"`
	ParentIDs []string `json:"parent_ids,omitempty"`

	// leadParent is the first parent the caller listed, before sorting.
	leadParent string
}

// normalize trims every field and canonicalizes the type and parent set.
func (r GenreRequest) normalize() GenreRequest {
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	t, _ := domain.ParseGenreType(r.Type)
	r.Type = string(t)
	r.ParentID = strings.TrimSpace(r.ParentID)
	r.leadParent = ""
	for _, p := range r.ParentIDs {
		if p = strings.TrimSpace(p); p != "" {
			r.leadParent = p
			break
		}
	}
	r.ParentIDs = domain.NormalizeIDs(r.ParentIDs)
	return r
}

// parentSet is the parent set to persist: the submitted set, or the primary
// parent alone when no set was submitted.
func (r GenreRequest) parentSet() []string {
	if len(r.ParentIDs) == 0 && r.ParentID != "" {
		return []string{r.ParentID}
	}
	return r.ParentIDs
}

// primaryParent is the legacy parent to persist. It defaults to the first
// parent the caller listed so that single-parent views stay connected.
func (r GenreRequest) primaryParent() string {
	if r.ParentID == "" {
		return r.leadParent
	}
	return r.ParentID
}

// ListGenres returns every genre ordered by ID.
func (s *GenreService) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}
	return genres, nil
}

// GetGenre returns a single genre.
func (s *GenreService) GetGenre(ctx context.Context, id string) (*domain.Genre, error) {
	g, err := s.store.GetGenre(ctx, id)
	if err != nil {
		return nil, readError(err, genreNotFound(id))
	}
	return g, nil
}

// GetGenreChildren returns the genres that list id as a parent.
func (s *GenreService) GetGenreChildren(ctx context.Context, id string) ([]*domain.Genre, error) {
	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}
	g := graph.New(genres)
	if _, err := g.Get(id); err != nil {
		return nil, err
	}
	return g.Children(id), nil
}

// CreateGenre validates and inserts a genre with its parent set.
// Every validation failure is reported at once in the error's Details.
func (s *GenreService) CreateGenre(ctx context.Context, principal *domain.Principal, req GenreRequest) (*domain.Genre, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	req = req.normalize()

	var created *domain.Genre
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		if err := validateGenre(ctx, tx, req, nil, false); err != nil {
			return err
		}

		g := &domain.Genre{
			Syncable:  domain.Syncable{ID: req.ID},
			Name:      req.Name,
			Type:      domain.GenreType(req.Type),
			ParentID:  req.primaryParent(),
			ParentIDs: req.parentSet(),
		}
		g.InitTimestamps()

		if err := tx.CreateGenre(ctx, g); err != nil {
			if store.IsAlreadyExists(err) {
				return domainerrors.Validation(fmt.Sprintf("Genre ID '%s' already exists", req.ID))
			}
			return err
		}
		created = g
		return nil
	})
	if err := txError(err); err != nil {
		return nil, err
	}

	reindexGenres(ctx, s.indexer, s.logger, created)
	s.logger.Info("genre created",
		"id", created.ID,
		"type", created.Type,
		"parents", created.ParentIDs,
		"by", principal.Username,
	)
	return created, nil
}

// UpdateGenre validates and applies new name, type and parents to an
// existing genre. The parent set is replaced in the same transaction.
func (s *GenreService) UpdateGenre(ctx context.Context, principal *domain.Principal, id string, req GenreRequest) (*domain.Genre, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	req.ID = id
	req = req.normalize()

	var updated *domain.Genre
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		existing, err := tx.GetGenre(ctx, req.ID)
		if err != nil {
			return readError(err, genreNotFound(req.ID))
		}

		if err := validateGenre(ctx, tx, req, existing, s.rejectCycles); err != nil {
			return err
		}

		existing.Name = req.Name
		existing.Type = domain.GenreType(req.Type)
		existing.ParentID = req.primaryParent()
		existing.ParentIDs = req.parentSet()
		existing.Touch()

		if err := tx.UpdateGenre(ctx, existing); err != nil {
			return err
		}
		if err := tx.SetGenreParents(ctx, existing.ID, existing.ParentIDs); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err := txError(err); err != nil {
		return nil, err
	}

	reindexGenres(ctx, s.indexer, s.logger, updated)
	s.logger.Info("genre updated",
		"id", updated.ID,
		"type", updated.Type,
		"parents", updated.ParentIDs,
		"by", principal.Username,
	)
	return updated, nil
}

// DeleteGenre removes a genre that has no children and is no band's
// primary genre. A blocked delete is a CONFLICT listing every dependent.
// Bands that carried the genre as a secondary tag lose that tag.
func (s *GenreService) DeleteGenre(ctx context.Context, principal *domain.Principal, id string) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}

	var retagged []string
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		g, err := tx.GetGenre(ctx, id)
		if err != nil {
			return readError(err, genreNotFound(id))
		}

		if err := checkGenreDeletable(ctx, tx, g); err != nil {
			return err
		}

		tagged, err := tx.ListBandsByGenre(ctx, id)
		if err != nil {
			return err
		}
		for _, b := range tagged {
			retagged = append(retagged, b.ID)
		}

		return tx.DeleteGenre(ctx, id)
	})
	if err := txError(err); err != nil {
		return err
	}

	if err := s.indexer.DeleteGenre(ctx, id); err != nil {
		s.logger.Warn("failed to remove genre from search index", "genre_id", id, "error", err)
	}
	for _, bandID := range retagged {
		if b, err := s.store.GetBand(ctx, bandID); err == nil {
			reindexBands(ctx, s.indexer, s.logger, b)
		}
	}

	s.logger.Info("genre deleted", "id", id, "retagged_bands", len(retagged), "by", principal.Username)
	return nil
}

// checkGenreDeletable returns a CONFLICT naming the child genres and the
// bands that use g as their primary genre, or nil when there are none.
func checkGenreDeletable(ctx context.Context, r store.Reader, g *domain.Genre) error {
	children, err := r.ListGenreChildren(ctx, g.ID)
	if err != nil {
		return err
	}
	bands, err := r.ListBandsByPrimaryGenre(ctx, g.ID)
	if err != nil {
		return err
	}

	var reasons []string
	if len(children) > 0 {
		names := make([]string, len(children))
		for i, c := range children {
			names[i] = c.Name
		}
		reasons = append(reasons, fmt.Sprintf("Cannot delete '%s': it has child genres: %s", g.Name, strings.Join(names, ", ")))
	}
	if len(bands) > 0 {
		names := make([]string, len(bands))
		for i, b := range bands {
			names[i] = b.Name
		}
		reasons = append(reasons, fmt.Sprintf("Cannot delete '%s': it is the primary genre of bands: %s", g.Name, strings.Join(names, ", ")))
	}
	if len(reasons) == 0 {
		return nil
	}
	return domainerrors.Conflict(reasons[0], reasons...)
}

// validateGenre runs every genre check and reports all failures together.
// existing is nil on create. Store failures are returned as-is.
func validateGenre(ctx context.Context, r store.Reader, req GenreRequest, existing *domain.Genre, rejectCycles bool) error {
	var c domainerrors.Collector
	creating := existing == nil

	c.Check(req.ID != "", "ID is required")
	c.Check(req.Name != "", "Name is required")
	if c.Check(req.Type != "", "Type is required") {
		c.Check(domain.GenreType(req.Type).Valid(), "Type must be one of: root, intermediate, leaf")
	}

	if creating && req.ID != "" {
		exists, err := r.GenreExists(ctx, req.ID)
		if err != nil {
			return err
		}
		if exists {
			c.Addf("Genre ID '%s' already exists", req.ID)
		}
	}

	if req.ID != "" && !genre.ValidID(req.ID) {
		c.Add("ID must contain only lowercase letters, numbers, and hyphens")
	}

	if req.ParentID != "" {
		exists, err := r.GenreExists(ctx, req.ParentID)
		if err != nil {
			return err
		}
		if !exists {
			c.Addf("Parent genre '%s' does not exist", req.ParentID)
		}
		if len(req.ParentIDs) > 0 && !slices.Contains(req.ParentIDs, req.ParentID) {
			c.Add("Primary parent must be one of the selected parent genres")
		}
	}

	candidate := &domain.Genre{
		Syncable:  domain.Syncable{ID: req.ID},
		ParentID:  req.ParentID,
		ParentIDs: req.ParentIDs,
	}
	selfParent := !creating && graph.IsSelfParent(candidate)
	if selfParent {
		if req.ParentID == req.ID {
			c.Add("A genre cannot be its own parent")
		}
		if slices.Contains(req.ParentIDs, req.ID) {
			c.Add("A genre cannot be in its own parent genres")
		}
	}

	for _, p := range req.ParentIDs {
		if p == req.ParentID || (!creating && p == req.ID) {
			continue
		}
		exists, err := r.GenreExists(ctx, p)
		if err != nil {
			return err
		}
		if !exists {
			c.Addf("Parent genre '%s' does not exist", p)
		}
	}

	// A genre that does not exist yet cannot be anyone's ancestor, so only
	// updates can close a cycle.
	if rejectCycles && !creating && !selfParent {
		genres, err := r.ListGenres(ctx)
		if err != nil {
			return err
		}
		proposed := append(slices.Clone(req.ParentIDs), req.ParentID)
		if via, cycle := graph.New(genres).WouldCycle(req.ID, proposed); cycle {
			c.Addf("Parent genres would create a cycle through '%s'", via)
		}
	}

	if !creating && existing.IsLeaf() && domain.GenreType(req.Type).Valid() && req.Type != string(domain.GenreTypeLeaf) {
		bands, err := r.ListBandsByPrimaryGenre(ctx, existing.ID)
		if err != nil {
			return err
		}
		if len(bands) > 0 {
			names := make([]string, len(bands))
			for i, b := range bands {
				names[i] = b.Name
			}
			c.Addf("Cannot change type of '%s': it is the primary genre of bands: %s", existing.Name, strings.Join(names, ", "))
		}
	}

	return c.Err()
}

func genreNotFound(id string) *domainerrors.Error {
	return domainerrors.NotFoundf("Genre '%s' not found", id)
}
