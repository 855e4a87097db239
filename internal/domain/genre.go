package domain

import (
	"slices"
	"strings"
)

// GenreType classifies a genre's position in the hierarchy.
// Only leaf genres may be assigned to bands.
type GenreType string

const (
	// GenreTypeRoot is a top-level genre with no parents.
	GenreTypeRoot GenreType = "root"
	// GenreTypeIntermediate groups other genres.
	GenreTypeIntermediate GenreType = "intermediate"
	// GenreTypeLeaf can be assigned to bands.
	GenreTypeLeaf GenreType = "leaf"
)

// GenreTypes lists every valid genre type in display order.
var GenreTypes = []GenreType{GenreTypeRoot, GenreTypeIntermediate, GenreTypeLeaf}

// Valid reports whether t is a known genre type.
func (t GenreType) Valid() bool {
	return slices.Contains(GenreTypes, t)
}

// ParseGenreType converts user input to a GenreType.
func ParseGenreType(s string) (GenreType, bool) {
	t := GenreType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// Genre is a node in the genre graph.
// A genre may have any number of parents: ParentIDs holds the full set and
// ParentID is the single primary parent kept for the legacy tree view.
type Genre struct {
	Syncable
	Name      string    `json:"name"`                // Display name: "Death Metal"
	Type      GenreType `json:"type"`                // root, intermediate, or leaf
	ParentID  string    `json:"parent_id,omitempty"` // Primary parent (empty for root)
	ParentIDs []string  `json:"parent_ids"`          // All parents, sorted
}

// IsLeaf reports whether bands may be tagged with this genre.
func (g *Genre) IsLeaf() bool {
	return g.Type == GenreTypeLeaf
}

// HasParent reports whether id is the primary parent or in the parent set.
func (g *Genre) HasParent(id string) bool {
	return g.ParentID == id || slices.Contains(g.ParentIDs, id)
}

// AllParentIDs returns the union of the primary parent and the parent set, sorted.
func (g *Genre) AllParentIDs() []string {
	ids := NormalizeIDs(g.ParentIDs)
	if g.ParentID != "" && !slices.Contains(ids, g.ParentID) {
		ids = append(ids, g.ParentID)
		slices.Sort(ids)
	}
	return ids
}

// NormalizeIDs trims, drops empties, sorts, and de-duplicates ids.
// The result is never nil.
func NormalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
