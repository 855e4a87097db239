package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	"github.com/musicgraph/musicgraph-server/internal/store"
)

const bandColumns = `id, name, primary_genre_id, created_at, updated_at`

func scanBand(scanner interface{ Scan(dest ...any) error }) (*domain.Band, error) {
	var (
		b         domain.Band
		createdAt string
		updatedAt string
	)
	if err := scanner.Scan(&b.ID, &b.Name, &b.PrimaryGenreID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	b.GenreIDs = []string{}
	return &b, nil
}

// GetBand retrieves a band by ID with its genre set.
// Returns store.ErrNotFound if the band does not exist.
func (r queries) GetBand(ctx context.Context, id string) (*domain.Band, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+bandColumns+` FROM bands WHERE id = ?`, id)

	b, err := scanBand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	genres, err := collectQuery(ctx, r.q,
		`SELECT genre_id FROM band_genres WHERE band_id = ? ORDER BY genre_id`, id)
	if err != nil {
		return nil, fmt.Errorf("load band genres: %w", err)
	}
	if genres != nil {
		b.GenreIDs = genres
	}
	return b, nil
}

// ListBands returns every band ordered by ID.
func (r queries) ListBands(ctx context.Context) ([]*domain.Band, error) {
	return r.listBands(ctx, `SELECT `+bandColumns+` FROM bands ORDER BY id`)
}

// ListBandsByPrimaryGenre returns the bands whose primary genre is genreID, ordered by name.
func (r queries) ListBandsByPrimaryGenre(ctx context.Context, genreID string) ([]*domain.Band, error) {
	return r.listBands(ctx,
		`SELECT `+bandColumns+` FROM bands WHERE primary_genre_id = ? ORDER BY name, id`, genreID)
}

// ListBandsByGenre returns the bands tagged with genreID, ordered by name.
func (r queries) ListBandsByGenre(ctx context.Context, genreID string) ([]*domain.Band, error) {
	return r.listBands(ctx, `
		SELECT `+bandColumns+` FROM bands
		WHERE id IN (SELECT band_id FROM band_genres WHERE genre_id = ?)
		ORDER BY name, id`, genreID)
}

// BandExists reports whether a band with id exists.
func (r queries) BandExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM bands WHERE id = ?`, id).Scan(&n)
	return n > 0, err
}

func (r queries) listBands(ctx context.Context, query string, args ...any) ([]*domain.Band, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	bands := []*domain.Band{}
	byID := make(map[string]*domain.Band)
	for rows.Next() {
		b, err := scanBand(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		bands = append(bands, b)
		byID[b.ID] = b
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bands) == 0 {
		return bands, nil
	}

	tags, err := r.q.QueryContext(ctx, `SELECT band_id, genre_id FROM band_genres ORDER BY band_id, genre_id`)
	if err != nil {
		return nil, fmt.Errorf("load band genres: %w", err)
	}
	defer tags.Close()
	for tags.Next() {
		var bandID, genreID string
		if err := tags.Scan(&bandID, &genreID); err != nil {
			return nil, err
		}
		if b, ok := byID[bandID]; ok {
			b.GenreIDs = append(b.GenreIDs, genreID)
		}
	}
	return bands, tags.Err()
}

// CreateBand inserts a new band and its genre set.
// Returns store.ErrAlreadyExists if the ID is taken.
func (t *txn) CreateBand(ctx context.Context, b *domain.Band) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO bands (id, name, primary_genre_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		b.ID,
		b.Name,
		b.PrimaryGenreID,
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithCause(err)
		}
		return fmt.Errorf("insert band: %w", err)
	}
	return t.SetBandGenres(ctx, b.ID, b.GenreIDs)
}

// UpdateBand updates name, primary genre and updated_at.
func (t *txn) UpdateBand(ctx context.Context, b *domain.Band) error {
	res, err := t.q.ExecContext(ctx, `
		UPDATE bands SET name = ?, primary_genre_id = ?, updated_at = ?
		WHERE id = ?`,
		b.Name,
		b.PrimaryGenreID,
		formatTime(b.UpdatedAt),
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("update band: %w", err)
	}
	return requireRow(res)
}

// SetBandGenres replaces the full genre set of bandID.
func (t *txn) SetBandGenres(ctx context.Context, bandID string, genreIDs []string) error {
	if _, err := t.q.ExecContext(ctx, `DELETE FROM band_genres WHERE band_id = ?`, bandID); err != nil {
		return fmt.Errorf("delete band_genres: %w", err)
	}

	for _, genreID := range domain.NormalizeIDs(genreIDs) {
		_, err := t.q.ExecContext(ctx, `
			INSERT INTO band_genres (band_id, genre_id)
			VALUES (?, ?)`,
			bandID,
			genreID,
		)
		if err != nil {
			return fmt.Errorf("insert band_genres: %w", err)
		}
	}
	return nil
}

// DeleteBand removes a band and its genre memberships.
func (t *txn) DeleteBand(ctx context.Context, id string) error {
	if _, err := t.q.ExecContext(ctx, `DELETE FROM band_genres WHERE band_id = ?`, id); err != nil {
		return fmt.Errorf("delete band_genres: %w", err)
	}
	res, err := t.q.ExecContext(ctx, `DELETE FROM bands WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete band: %w", err)
	}
	return requireRow(res)
}
