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

// makeTestGenre creates a domain.Genre with sensible defaults for testing.
func makeTestGenre(id, name string, typ domain.GenreType, parents ...string) *domain.Genre {
	now := time.Now()
	g := &domain.Genre{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:      name,
		Type:      typ,
		ParentIDs: domain.NormalizeIDs(parents),
	}
	if len(parents) > 0 {
		g.ParentID = parents[0]
	}
	return g
}

// seedGenres inserts rock > metal > {death-metal, thrash-metal}.
func seedGenres(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	mustTx(t, s, func(tx store.Tx) error {
		for _, g := range []*domain.Genre{
			makeTestGenre("rock", "Rock", domain.GenreTypeRoot),
			makeTestGenre("metal", "Metal", domain.GenreTypeIntermediate, "rock"),
			makeTestGenre("death-metal", "Death Metal", domain.GenreTypeLeaf, "metal"),
			makeTestGenre("thrash-metal", "Thrash Metal", domain.GenreTypeLeaf, "metal"),
		} {
			if err := tx.CreateGenre(ctx, g); err != nil {
				return err
			}
		}
		return nil
	})
}

func TestCreateAndGetGenre(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGenres(t, s)

	got, err := s.GetGenre(ctx, "metal")
	if err != nil {
		t.Fatalf("GetGenre: %v", err)
	}

	if got.Name != "Metal" {
		t.Errorf("Name: got %q, want %q", got.Name, "Metal")
	}
	if got.Type != domain.GenreTypeIntermediate {
		t.Errorf("Type: got %q, want %q", got.Type, domain.GenreTypeIntermediate)
	}
	if got.ParentID != "rock" {
		t.Errorf("ParentID: got %q, want %q", got.ParentID, "rock")
	}
	if !slices.Equal(got.ParentIDs, []string{"rock"}) {
		t.Errorf("ParentIDs: got %v", got.ParentIDs)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	root, err := s.GetGenre(ctx, "rock")
	if err != nil {
		t.Fatalf("GetGenre(rock): %v", err)
	}
	if root.ParentID != "" {
		t.Errorf("root ParentID: got %q", root.ParentID)
	}
	if root.ParentIDs == nil || len(root.ParentIDs) != 0 {
		t.Errorf("root ParentIDs: want empty non-nil, got %#v", root.ParentIDs)
	}
}

func TestGetGenre_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetGenre(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateGenre_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGenres(t, s)

	err := s.InTx(ctx, func(tx store.Tx) error {
		return tx.CreateGenre(ctx, makeTestGenre("rock", "Rock Again", domain.GenreTypeRoot))
	})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListGenres(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGenres(t, s)

	genres, err := s.ListGenres(ctx)
	if err != nil {
		t.Fatalf("ListGenres: %v", err)
	}

	var ids []string
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	want := []string{"death-metal", "metal", "rock", "thrash-metal"}
	if !slices.Equal(ids, want) {
		t.Errorf("ids: got %v, want %v", ids, want)
	}

	for _, g := range genres {
		if g.ID == "death-metal" && !slices.Equal(g.ParentIDs, []string{"metal"}) {
			t.Errorf("death-metal parents: got %v", g.ParentIDs)
		}
	}
}

func TestGetGenresByIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGenres(t, s)

	genres, err := s.GetGenresByIDs(ctx, []string{"rock", "missing", "metal"})
	if err != nil {
		t.Fatalf("GetGenresByIDs: %v", err)
	}
	if len(genres) != 2 {
		t.Fatalf("expected 2 genres, got %d", len(genres))
	}

	empty, err := s.GetGenresByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("GetGenresByIDs(nil): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no genres, got %d", len(empty))
	}
}

func TestListGenreChildren(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGenres(t, s)

	// groove-metal names metal only in its parent set, not as primary parent.
	mustTx(t, s, func(tx store.Tx) error {
		g := makeTestGenre("groove-metal", "Groove Metal", domain.GenreTypeLeaf, "thrash-metal", "metal")
		return tx.CreateGenre(ctx, g)
	})

	children, err := s.ListGenreChildren(ctx, "metal")
	if err != nil {
		t.Fatalf("ListGenreChildren: %v", err)
	}

	var names []string
	for _, g := range children {
		names = append(names, g.Name)
	}
	want := []string{"Death Metal", "Groove Metal", "Thrash Metal"}
	if !slices.Equal(names, want) {
		t.Errorf("children: got %v, want %v", names, want)
	}
}

func TestUpdateGenreAndParents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGenres(t, s)

	mustTx(t, s, func(tx store.Tx) error {
		g, err := tx.GetGenre(ctx, "death-metal")
		if err != nil {
			return err
		}
		g.Name = "Death"
		g.ParentID = "thrash-metal"
		g.Touch()
		if err := tx.UpdateGenre(ctx, g); err != nil {
			return err
		}
		return tx.SetGenreParents(ctx, g.ID, []string{"thrash-metal", "metal", "metal"})
	})

	got, err := s.GetGenre(ctx, "death-metal")
	if err != nil {
		t.Fatalf("GetGenre: %v", err)
	}
	if got.Name != "Death" {
		t.Errorf("Name: got %q", got.Name)
	}
	if got.ParentID != "thrash-metal" {
		t.Errorf("ParentID: got %q", got.ParentID)
	}
	if !slices.Equal(got.ParentIDs, []string{"metal", "thrash-metal"}) {
		t.Errorf("ParentIDs: got %v", got.ParentIDs)
	}

	err = s.InTx(ctx, func(tx store.Tx) error {
		return tx.UpdateGenre(ctx, makeTestGenre("nope", "Nope", domain.GenreTypeLeaf))
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteGenre_RemovesEdges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGenres(t, s)

	mustTx(t, s, func(tx store.Tx) error {
		return tx.CreateBand(ctx, makeTestBand("anthrax", "Anthrax", "thrash-metal", "death-metal"))
	})

	mustTx(t, s, func(tx store.Tx) error {
		return tx.DeleteGenre(ctx, "death-metal")
	})

	exists, err := s.GenreExists(ctx, "death-metal")
	if err != nil {
		t.Fatalf("GenreExists: %v", err)
	}
	if exists {
		t.Error("death-metal should be gone")
	}

	band, err := s.GetBand(ctx, "anthrax")
	if err != nil {
		t.Fatalf("GetBand: %v", err)
	}
	if !slices.Equal(band.GenreIDs, []string{"thrash-metal"}) {
		t.Errorf("band genres after delete: got %v", band.GenreIDs)
	}

	err = s.InTx(ctx, func(tx store.Tx) error { return tx.DeleteGenre(ctx, "death-metal") })
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestCountGenres(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.CountGenres(ctx)
	if err != nil {
		t.Fatalf("CountGenres: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0, got %d", n)
	}

	seedGenres(t, s)
	if n, _ = s.CountGenres(ctx); n != 4 {
		t.Errorf("expected 4, got %d", n)
	}
}
