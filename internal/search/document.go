// Package search provides full-text search over genres and bands using Bleve.
// Free-text queries are expanded through the genre alias table so that
// "dm" finds Death Metal and the bands tagged with it.
package search

import (
	"strings"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	"github.com/musicgraph/musicgraph-server/internal/genre"
)

// Kind discriminates documents in the unified index.
type Kind string

// Document kinds.
const (
	KindGenre Kind = "genre"
	KindBand  Kind = "band"
)

// Valid reports whether k is a known document kind.
func (k Kind) Valid() bool {
	return k == KindGenre || k == KindBand
}

// SearchDocument is the unified document stored in the index.
type SearchDocument struct {
	ID        string // Entity ID (genre or band slug)
	Kind      Kind
	Name      string
	GenreType domain.GenreType // genres only
	GenreIDs  []string         // band tags, or a genre's own ID plus its parents
	Aliases   []string         // alias keys that resolve to this genre
	UpdatedAt int64            // Unix millis
}

// DocID is the index key. Genres and bands share the slug namespace, so the
// kind is part of the key.
func (d *SearchDocument) DocID() string {
	return DocID(d.Kind, d.ID)
}

// DocID builds the index key for an entity.
func DocID(kind Kind, id string) string {
	return string(kind) + ":" + id
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *SearchDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"kind":       string(d.Kind),
		"name":       d.Name,
		"name_key":   strings.ToLower(d.Name),
		"updated_at": d.UpdatedAt,
	}
	if d.GenreType != "" {
		m["genre_type"] = string(d.GenreType)
	}
	if len(d.GenreIDs) > 0 {
		m["genre_ids"] = d.GenreIDs
	}
	if len(d.Aliases) > 0 {
		m["aliases"] = d.Aliases
	}
	return m
}

// GenreToSearchDocument converts a genre to a SearchDocument.
func GenreToSearchDocument(g *domain.Genre) *SearchDocument {
	ids := append([]string{g.ID}, g.AllParentIDs()...)
	return &SearchDocument{
		ID:        g.ID,
		Kind:      KindGenre,
		Name:      g.Name,
		GenreType: g.Type,
		GenreIDs:  domain.NormalizeIDs(ids),
		Aliases:   aliasesFor(g.ID),
		UpdatedAt: g.UpdatedAt.UnixMilli(),
	}
}

// BandToSearchDocument converts a band to a SearchDocument.
func BandToSearchDocument(b *domain.Band) *SearchDocument {
	return &SearchDocument{
		ID:        b.ID,
		Kind:      KindBand,
		Name:      b.Name,
		GenreIDs:  domain.NormalizeIDs(b.GenreIDs),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
	}
}

// aliasesFor returns the alias keys that resolve to genreID, sorted.
func aliasesFor(genreID string) []string {
	var out []string
	for alias, targets := range genre.CanonicalAliases {
		if alias == genreID {
			continue
		}
		for _, t := range targets {
			if t == genreID {
				out = append(out, alias)
				break
			}
		}
	}
	return domain.NormalizeIDs(out)
}
