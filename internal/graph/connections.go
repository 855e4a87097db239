package graph

import (
	"cmp"
	"slices"

	"github.com/musicgraph/musicgraph-server/internal/domain"
)

// Edge is an undirected connection between two genres with A < B.
type Edge struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewEdge orders x and y so that A < B.
func NewEdge(x, y string) Edge {
	if y < x {
		x, y = y, x
	}
	return Edge{A: x, B: y}
}

// Mode selects which parent edges a connection view includes.
type Mode string

const (
	// ModePrimary uses only each genre's primary parent.
	ModePrimary Mode = "primary"
	// ModeAll uses the primary parent plus the full parent set.
	ModeAll Mode = "all"
)

// Connections returns the deduplicated undirected edges formed by each
// genre's primary parent, sorted. It is a pure function of its input.
func Connections(genres []*domain.Genre) []Edge {
	return derive(genres, func(g *domain.Genre) []string {
		if g.ParentID == "" {
			return nil
		}
		return []string{g.ParentID}
	})
}

// AllConnections is like Connections but also follows the parent set.
func AllConnections(genres []*domain.Genre) []Edge {
	return derive(genres, func(g *domain.Genre) []string {
		return g.AllParentIDs()
	})
}

// ConnectionsFor dispatches on mode; unknown modes fall back to ModePrimary.
func ConnectionsFor(mode Mode, genres []*domain.Genre) []Edge {
	if mode == ModeAll {
		return AllConnections(genres)
	}
	return Connections(genres)
}

func derive(genres []*domain.Genre, parents func(*domain.Genre) []string) []Edge {
	set := make(map[Edge]struct{})
	for _, g := range genres {
		for _, p := range parents(g) {
			set[NewEdge(g.ID, p)] = struct{}{}
		}
	}

	out := make([]Edge, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	slices.SortFunc(out, func(x, y Edge) int {
		return cmp.Or(cmp.Compare(x.A, y.A), cmp.Compare(x.B, y.B))
	})
	return out
}
