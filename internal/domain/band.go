package domain

import "slices"

// Band is an artist tagged with one or more genres.
// PrimaryGenreID is always a leaf genre and always a member of GenreIDs.
type Band struct {
	Syncable
	Name           string   `json:"name"`
	PrimaryGenreID string   `json:"primary_genre_id"`
	GenreIDs       []string `json:"genre_ids"` // sorted
}

// HasGenre reports whether the band is tagged with genreID.
func (b *Band) HasGenre(genreID string) bool {
	return slices.Contains(b.GenreIDs, genreID)
}

// SecondaryGenreIDs returns the tags other than the primary genre.
func (b *Band) SecondaryGenreIDs() []string {
	out := make([]string, 0, len(b.GenreIDs))
	for _, id := range b.GenreIDs {
		if id != b.PrimaryGenreID {
			out = append(out, id)
		}
	}
	return out
}
