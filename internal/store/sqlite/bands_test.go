package sqlite

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	"github.com/musicgraph/musicgraph-server/internal/store"
)

// makeTestBand creates a domain.Band tagged with primary plus extra genres.
func makeTestBand(id, name, primary string, extra ...string) *domain.Band {
	now := time.Now()
	return &domain.Band{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:           name,
		PrimaryGenreID: primary,
		GenreIDs:       domain.NormalizeIDs(append([]string{primary}, extra...)),
	}
}

func TestCreateAndGetBand(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGenres(t, s)

	mustTx(t, s, func(tx store.Tx) error {
		return tx.CreateBand(ctx, makeTestBand("pantera", "Pantera", "thrash-metal", "death-metal"))
	})

	got, err := s.GetBand(ctx, "pantera")
	if err != nil {
		t.Fatalf("GetBand: %v", err)
	}
	if got.Name != "Pantera" {
		t.Errorf("Name: got %q", got.Name)
	}
	if got.PrimaryGenreID != "thrash-metal" {
		t.Errorf("PrimaryGenreID: got %q", got.PrimaryGenreID)
	}
	if !slices.Equal(got.GenreIDs, []string{"death-metal", "thrash-metal"}) {
		t.Errorf("GenreIDs: got %v", got.GenreIDs)
	}

	if _, err := s.GetBand(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateBand_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGenres(t, s)

	mustTx(t, s, func(tx store.Tx) error {
		return tx.CreateBand(ctx, makeTestBand("pantera", "Pantera", "thrash-metal"))
	})

	err := s.InTx(ctx, func(tx store.Tx) error {
		return tx.CreateBand(ctx, makeTestBand("pantera", "Pantera", "thrash-metal"))
	})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateBand_UnknownPrimaryGenreFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGenres(t, s)

	err := s.InTx(ctx, func(tx store.Tx) error {
		return tx.CreateBand(ctx, makeTestBand("ghost", "Ghost", "doom"))
	})
	if err == nil {
		t.Fatal("expected foreign key error")
	}

	if exists, _ := s.BandExists(ctx, "ghost"); exists {
		t.Error("band should not exist after failed create")
	}
}

func TestListBandsByGenre(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGenres(t, s)

	mustTx(t, s, func(tx store.Tx) error {
		for _, b := range []*domain.Band{
			makeTestBand("pantera", "Pantera", "thrash-metal", "death-metal"),
			makeTestBand("death", "Death", "death-metal"),
			makeTestBand("anthrax", "Anthrax", "thrash-metal"),
		} {
			if err := tx.CreateBand(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})

	tests := []struct {
		name string
		list func(context.Context, string) ([]*domain.Band, error)
		id   string
		want []string
	}{
		{"primary thrash", s.ListBandsByPrimaryGenre, "thrash-metal", []string{"Anthrax", "Pantera"}},
		{"primary death", s.ListBandsByPrimaryGenre, "death-metal", []string{"Death"}},
		{"tagged death", s.ListBandsByGenre, "death-metal", []string{"Death", "Pantera"}},
		{"tagged rock", s.ListBandsByGenre, "rock", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bands, err := tt.list(ctx, tt.id)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			var names []string
			for _, b := range bands {
				names = append(names, b.Name)
			}
			if !slices.Equal(names, tt.want) {
				t.Errorf("got %v, want %v", names, tt.want)
			}
		})
	}

	all, err := s.ListBands(ctx)
	if err != nil {
		t.Fatalf("ListBands: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 bands, got %d", len(all))
	}
	if !slices.Equal(all[2].GenreIDs, []string{"death-metal", "thrash-metal"}) {
		t.Errorf("pantera genres: got %v", all[2].GenreIDs)
	}
}

func TestUpdateAndDeleteBand(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGenres(t, s)

	mustTx(t, s, func(tx store.Tx) error {
		return tx.CreateBand(ctx, makeTestBand("pantera", "Pantera", "thrash-metal"))
	})

	mustTx(t, s, func(tx store.Tx) error {
		b, err := tx.GetBand(ctx, "pantera")
		if err != nil {
			return err
		}
		b.Name = "Pantera (US)"
		b.PrimaryGenreID = "death-metal"
		b.Touch()
		if err := tx.UpdateBand(ctx, b); err != nil {
			return err
		}
		return tx.SetBandGenres(ctx, b.ID, []string{"death-metal"})
	})

	got, err := s.GetBand(ctx, "pantera")
	if err != nil {
		t.Fatalf("GetBand: %v", err)
	}
	if got.Name != "Pantera (US)" || got.PrimaryGenreID != "death-metal" {
		t.Errorf("update not applied: %+v", got)
	}
	if !slices.Equal(got.GenreIDs, []string{"death-metal"}) {
		t.Errorf("GenreIDs: got %v", got.GenreIDs)
	}

	mustTx(t, s, func(tx store.Tx) error { return tx.DeleteBand(ctx, "pantera") })
	if exists, _ := s.BandExists(ctx, "pantera"); exists {
		t.Error("band should be deleted")
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM band_genres`).Scan(&n); err != nil {
		t.Fatalf("count band_genres: %v", err)
	}
	if n != 0 {
		t.Errorf("expected band_genres emptied, got %d rows", n)
	}
}
