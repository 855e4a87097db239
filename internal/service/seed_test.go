package service

import (
	"context"
	"testing"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	domainerrors "github.com/musicgraph/musicgraph-server/internal/errors"
	"github.com/musicgraph/musicgraph-server/internal/genre"
	"github.com/musicgraph/musicgraph-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedService_SeedTaxonomy(t *testing.T) {
	s := newTestStore(t)
	svc := NewSeedService(s, nil, nil)
	ctx := context.Background()

	report, err := svc.SeedTaxonomy(ctx, genre.DefaultTaxonomy)
	require.NoError(t, err)
	assert.Equal(t, SeedReport{GenresCreated: 5, BandsCreated: 4}, *report)

	report, err = svc.SeedTaxonomy(ctx, genre.DefaultTaxonomy)
	require.NoError(t, err)
	assert.Equal(t, SeedReport{GenresSkipped: 5, BandsSkipped: 4}, *report)

	g, err := s.GetGenre(ctx, "death-metal")
	require.NoError(t, err)
	assert.Equal(t, "metal", g.ParentID)
	assert.Equal(t, []string{"metal"}, g.ParentIDs)
}

func TestSeedService_SeedTaxonomy_DerivesIDs(t *testing.T) {
	s := newTestStore(t)
	svc := NewSeedService(s, nil, nil)

	_, err := svc.SeedTaxonomy(context.Background(), genre.Taxonomy{
		Genres: []genre.GenreSeed{
			{Name: "Jazz", Type: "root"},
			{Name: "Bebop", Type: "leaf", Parent: "jazz"},
		},
		Bands: []genre.BandSeed{
			{Name: "Charlie Parker Quintet", Primary: "bebop", Genres: []string{"bebop"}},
		},
	})
	require.NoError(t, err)

	b, err := s.GetBand(context.Background(), "charlie-parker-quintet")
	require.NoError(t, err)
	assert.Equal(t, "bebop", b.PrimaryGenreID)
}

func TestSeedService_SeedTaxonomy_InvalidEntryRollsBack(t *testing.T) {
	s := newTestStore(t)
	svc := NewSeedService(s, nil, nil)
	ctx := context.Background()

	_, err := svc.SeedTaxonomy(ctx, genre.Taxonomy{
		Genres: []genre.GenreSeed{
			{ID: "rock", Name: "Rock", Type: "root"},
			{ID: "metal", Name: "Metal", Type: "intermediate", Parent: "rock"},
		},
		Bands: []genre.BandSeed{
			{ID: "motorhead", Name: "Motorhead", Primary: "metal", Genres: []string{"metal"}},
		},
	})
	assertCode(t, err, domainerrors.CodeValidation)
	assert.Equal(t, []string{
		"band 'motorhead': Primary genre must be a 'leaf' genre. 'Metal' is type 'intermediate'",
	}, domainerrors.Messages(err))

	n, err := s.CountGenres(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSeedService_SeedTaxonomy_StructValidation(t *testing.T) {
	svc := NewSeedService(untouchableStore{}, nil, nil)

	var err error
	require.NotPanics(t, func() {
		_, err = svc.SeedTaxonomy(context.Background(), genre.Taxonomy{
			Genres: []genre.GenreSeed{{ID: "Bad ID", Name: "Bad", Type: "branch"}},
		})
	})
	assertCode(t, err, domainerrors.CodeValidation)
	assert.Len(t, domainerrors.Messages(err), 2)
}

func TestSeedService_MigrateParents(t *testing.T) {
	s := newSeededStore(t)
	svc := NewSeedService(s, nil, nil)
	ctx := context.Background()

	// A legacy row carries only the primary parent.
	require.NoError(t, s.InTx(ctx, func(tx store.Tx) error {
		g := &domain.Genre{
			Syncable: domain.Syncable{ID: "speed-metal"},
			Name:     "Speed Metal",
			Type:     domain.GenreTypeLeaf,
			ParentID: "metal",
		}
		g.InitTimestamps()
		return tx.CreateGenre(ctx, g)
	}))

	report, err := svc.MigrateParents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Scanned)
	assert.Equal(t, []string{"speed-metal"}, report.Migrated)
	assert.Equal(t, 4, report.AlreadyPresent)
	assert.Empty(t, report.MissingParents)
	assert.Empty(t, report.Unverified)

	g, err := s.GetGenre(ctx, "speed-metal")
	require.NoError(t, err)
	assert.Equal(t, []string{"metal"}, g.ParentIDs)

	report, err = svc.MigrateParents(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Migrated)
	assert.Equal(t, 5, report.AlreadyPresent)
}
