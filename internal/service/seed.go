package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	domainerrors "github.com/musicgraph/musicgraph-server/internal/errors"
	"github.com/musicgraph/musicgraph-server/internal/genre"
	"github.com/musicgraph/musicgraph-server/internal/logger"
	"github.com/musicgraph/musicgraph-server/internal/store"
	"github.com/musicgraph/musicgraph-server/internal/validation"
)

// SeedService loads taxonomies and runs data migrations. It is used by
// startup and the operator CLI, never over HTTP, so it carries no principal.
type SeedService struct {
	store     store.Store
	indexer   store.SearchIndexer
	validator *validation.Validator
	logger    *slog.Logger
}

// NewSeedService creates a new seed service.
func NewSeedService(store store.Store, indexer store.SearchIndexer, log *slog.Logger) *SeedService {
	return &SeedService{
		store:     store,
		indexer:   indexerOrNoop(indexer),
		validator: validation.New(),
		logger:    logger.OrDiscard(log),
	}
}

// SeedReport counts what SeedTaxonomy did.
type SeedReport struct {
	GenresCreated int `json:"genres_created"`
	GenresSkipped int `json:"genres_skipped"`
	BandsCreated  int `json:"bands_created"`
	BandsSkipped  int `json:"bands_skipped"`
}

// SeedTaxonomy inserts the taxonomy's genres, parents first, then its bands.
// Entries whose ID already exists are skipped. Every entry goes through the
// same validation as the admin API, and the whole load is one transaction.
func (s *SeedService) SeedTaxonomy(ctx context.Context, tax genre.Taxonomy) (*SeedReport, error) {
	if err := s.validator.Validate(tax); err != nil {
		return nil, err
	}

	var (
		report SeedReport
		genres []*domain.Genre
		bands  []*domain.Band
	)
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		for _, gs := range tax.Genres {
			req := GenreRequest{
				ID:        gs.GenreID(),
				Name:      gs.Name,
				Type:      gs.Type,
				ParentID:  gs.Parent,
				ParentIDs: gs.Parents,
			}.normalize()

			exists, err := tx.GenreExists(ctx, req.ID)
			if err != nil {
				return err
			}
			if exists {
				report.GenresSkipped++
				continue
			}
			if err := validateGenre(ctx, tx, req, nil, false); err != nil {
				return seedError("genre", req.ID, err)
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
				return err
			}
			genres = append(genres, g)
			report.GenresCreated++
		}

		for _, bs := range tax.Bands {
			req := BandRequest{
				ID:             bs.BandID(),
				Name:           bs.Name,
				PrimaryGenreID: bs.Primary,
				GenreIDs:       bs.Genres,
			}.normalize()

			exists, err := tx.BandExists(ctx, req.ID)
			if err != nil {
				return err
			}
			if exists {
				report.BandsSkipped++
				continue
			}
			if err := validateBand(ctx, tx, req, true); err != nil {
				return seedError("band", req.ID, err)
			}

			b := &domain.Band{
				Syncable:       domain.Syncable{ID: req.ID},
				Name:           req.Name,
				PrimaryGenreID: req.PrimaryGenreID,
				GenreIDs:       req.GenreIDs,
			}
			b.InitTimestamps()
			if err := tx.CreateBand(ctx, b); err != nil {
				return err
			}
			bands = append(bands, b)
			report.BandsCreated++
		}
		return nil
	})
	if err := txError(err); err != nil {
		return nil, err
	}

	reindexGenres(ctx, s.indexer, s.logger, genres...)
	reindexBands(ctx, s.indexer, s.logger, bands...)
	s.logger.Info("taxonomy seeded",
		"genres_created", report.GenresCreated,
		"genres_skipped", report.GenresSkipped,
		"bands_created", report.BandsCreated,
		"bands_skipped", report.BandsSkipped,
	)
	return &report, nil
}

// seedError prefixes every validation message with the failing entry.
func seedError(kind, id string, err error) error {
	var de *domainerrors.Error
	if !domainerrors.As(err, &de) {
		return err
	}
	msgs := domainerrors.Messages(de)
	details := make([]string, len(msgs))
	for i, m := range msgs {
		details[i] = fmt.Sprintf("%s '%s': %s", kind, id, m)
	}
	return domainerrors.ValidationWithDetails(details[0], details)
}

// MigrationReport describes a MigrateParents run.
type MigrationReport struct {
	Scanned        int      `json:"scanned"`
	Migrated       []string `json:"migrated"`
	AlreadyPresent int      `json:"already_present"`
	// MissingParents lists "child -> parent" links whose parent is gone.
	MissingParents []string `json:"missing_parents"`
	// Unverified lists genres whose primary parent is still not in the
	// parent set after migration. It is empty on success.
	Unverified []string `json:"unverified"`
}

// MigrateParents copies every legacy primary parent into the genre's parent
// set when it is missing, then re-reads the genres to verify the result.
func (s *SeedService) MigrateParents(ctx context.Context) (*MigrationReport, error) {
	report := &MigrationReport{
		Migrated:       []string{},
		MissingParents: []string{},
		Unverified:     []string{},
	}

	err := s.store.InTx(ctx, func(tx store.Tx) error {
		genres, err := tx.ListGenres(ctx)
		if err != nil {
			return err
		}

		for _, g := range genres {
			if g.ParentID == "" {
				continue
			}
			report.Scanned++
			if slices.Contains(g.ParentIDs, g.ParentID) {
				report.AlreadyPresent++
				continue
			}

			exists, err := tx.GenreExists(ctx, g.ParentID)
			if err != nil {
				return err
			}
			if !exists {
				report.MissingParents = append(report.MissingParents, g.ID+" -> "+g.ParentID)
				continue
			}

			parents := append(slices.Clone(g.ParentIDs), g.ParentID)
			if err := tx.SetGenreParents(ctx, g.ID, parents); err != nil {
				return err
			}
			report.Migrated = append(report.Migrated, g.ID)
		}

		verified, err := tx.ListGenres(ctx)
		if err != nil {
			return err
		}
		for _, g := range verified {
			if g.ParentID != "" && !slices.Contains(g.ParentIDs, g.ParentID) {
				report.Unverified = append(report.Unverified, g.ID)
			}
		}
		return nil
	})
	if err := txError(err); err != nil {
		return nil, err
	}

	s.logger.Info("parent migration complete",
		"scanned", report.Scanned,
		"migrated", len(report.Migrated),
		"already_present", report.AlreadyPresent,
		"missing_parents", len(report.MissingParents),
		"unverified", len(report.Unverified),
	)
	return report, nil
}
