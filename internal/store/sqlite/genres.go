package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	"github.com/musicgraph/musicgraph-server/internal/store"
)

// genreColumns is the ordered list of columns selected in genre queries.
// Must match the scan order in scanGenre.
const genreColumns = `id, name, type, parent_id, created_at, updated_at`

// scanGenre scans a sql.Row (or sql.Rows via its Scan method) into a domain.Genre.
// The parent set is loaded separately.
func scanGenre(scanner interface{ Scan(dest ...any) error }) (*domain.Genre, error) {
	var (
		g         domain.Genre
		genreType string
		parentID  sql.NullString
		createdAt string
		updatedAt string
	)

	if err := scanner.Scan(&g.ID, &g.Name, &genreType, &parentID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	g.Type = domain.GenreType(genreType)
	if parentID.Valid {
		g.ParentID = parentID.String
	}

	var err error
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	g.ParentIDs = []string{}
	return &g, nil
}

// GetGenre retrieves a genre by ID with its parent set.
// Returns store.ErrNotFound if the genre does not exist.
func (r queries) GetGenre(ctx context.Context, id string) (*domain.Genre, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+genreColumns+` FROM genres WHERE id = ?`, id)

	g, err := scanGenre(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	parents, err := collectQuery(ctx, r.q,
		`SELECT parent_id FROM genre_parents WHERE genre_id = ? ORDER BY parent_id`, id)
	if err != nil {
		return nil, fmt.Errorf("load genre parents: %w", err)
	}
	if parents != nil {
		g.ParentIDs = parents
	}
	return g, nil
}

// GetGenresByIDs returns the genres that exist among ids, ordered by ID.
func (r queries) GetGenresByIDs(ctx context.Context, ids []string) ([]*domain.Genre, error) {
	if len(ids) == 0 {
		return []*domain.Genre{}, nil
	}
	return r.listGenres(ctx,
		`SELECT `+genreColumns+` FROM genres WHERE id IN (`+placeholders(len(ids))+`) ORDER BY id`,
		stringArgs(ids)...)
}

// ListGenres returns every genre ordered by ID.
func (r queries) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	return r.listGenres(ctx, `SELECT `+genreColumns+` FROM genres ORDER BY id`)
}

// ListGenreChildren returns the genres naming id as primary parent or in their parent set.
func (r queries) ListGenreChildren(ctx context.Context, id string) ([]*domain.Genre, error) {
	return r.listGenres(ctx, `
		SELECT `+genreColumns+` FROM genres
		WHERE parent_id = ?
		   OR id IN (SELECT genre_id FROM genre_parents WHERE parent_id = ?)
		ORDER BY name, id`, id, id)
}

// GenreExists reports whether a genre with id exists.
func (r queries) GenreExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM genres WHERE id = ?`, id).Scan(&n)
	return n > 0, err
}

// CountGenres returns the number of genres.
func (r queries) CountGenres(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM genres`).Scan(&n)
	return n, err
}

// listGenres runs a genre query and attaches parent sets.
func (r queries) listGenres(ctx context.Context, query string, args ...any) ([]*domain.Genre, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	genres := []*domain.Genre{}
	byID := make(map[string]*domain.Genre)
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		genres = append(genres, g)
		byID[g.ID] = g
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(genres) == 0 {
		return genres, nil
	}

	// Rows must be closed before the next query when running inside a Tx.
	edges, err := r.q.QueryContext(ctx, `SELECT genre_id, parent_id FROM genre_parents ORDER BY genre_id, parent_id`)
	if err != nil {
		return nil, fmt.Errorf("load genre parents: %w", err)
	}
	defer edges.Close()
	for edges.Next() {
		var child, parent string
		if err := edges.Scan(&child, &parent); err != nil {
			return nil, err
		}
		if g, ok := byID[child]; ok {
			g.ParentIDs = append(g.ParentIDs, parent)
		}
	}
	return genres, edges.Err()
}

// CreateGenre inserts a new genre and its parent set.
// Returns store.ErrAlreadyExists if the ID is taken.
func (t *txn) CreateGenre(ctx context.Context, g *domain.Genre) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO genres (id, name, type, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID,
		g.Name,
		string(g.Type),
		nullString(g.ParentID),
		formatTime(g.CreatedAt),
		formatTime(g.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithCause(err)
		}
		return fmt.Errorf("insert genre: %w", err)
	}
	return t.SetGenreParents(ctx, g.ID, g.ParentIDs)
}

// UpdateGenre updates name, type, primary parent and updated_at.
// The parent set is replaced separately with SetGenreParents.
func (t *txn) UpdateGenre(ctx context.Context, g *domain.Genre) error {
	res, err := t.q.ExecContext(ctx, `
		UPDATE genres SET name = ?, type = ?, parent_id = ?, updated_at = ?
		WHERE id = ?`,
		g.Name,
		string(g.Type),
		nullString(g.ParentID),
		formatTime(g.UpdatedAt),
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("update genre: %w", err)
	}
	return requireRow(res)
}

// SetGenreParents replaces the full parent set of genreID.
func (t *txn) SetGenreParents(ctx context.Context, genreID string, parentIDs []string) error {
	if _, err := t.q.ExecContext(ctx, `DELETE FROM genre_parents WHERE genre_id = ?`, genreID); err != nil {
		return fmt.Errorf("delete genre_parents: %w", err)
	}

	for _, parentID := range domain.NormalizeIDs(parentIDs) {
		_, err := t.q.ExecContext(ctx, `
			INSERT INTO genre_parents (genre_id, parent_id)
			VALUES (?, ?)`,
			genreID,
			parentID,
		)
		if err != nil {
			return fmt.Errorf("insert genre_parents: %w", err)
		}
	}
	return nil
}

// DeleteGenre removes a genre, every parent-set edge naming it, and any band
// memberships in it. Primary-parent pointers to it are cleared.
func (t *txn) DeleteGenre(ctx context.Context, id string) error {
	// The foreign keys cascade too; these keep the edges consistent even on a
	// connection opened without foreign_keys.
	stmts := []struct {
		query string
		args  []any
	}{
		{`DELETE FROM genre_parents WHERE genre_id = ? OR parent_id = ?`, []any{id, id}},
		{`DELETE FROM band_genres WHERE genre_id = ?`, []any{id}},
		{`UPDATE genres SET parent_id = NULL WHERE parent_id = ?`, []any{id}},
	}
	for _, stmt := range stmts {
		if _, err := t.q.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("delete genre edges: %w", err)
		}
	}

	res, err := t.q.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	return requireRow(res)
}

// requireRow maps "no rows affected" to store.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// collectQuery runs a single-column string query.
func collectQuery(ctx context.Context, q querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectStrings(rows)
}
