// Package graph holds the in-memory genre DAG used for validation and display.
//
// A Graph is a read-only snapshot built from a list of genres. Edges point
// from child to parent and are the union of each genre's primary parent and
// its parent set.
package graph

import (
	"cmp"
	"slices"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	domainerrors "github.com/musicgraph/musicgraph-server/internal/errors"
)

// Graph is an immutable genre DAG keyed by genre ID.
type Graph struct {
	nodes    map[string]*domain.Genre
	children map[string][]*domain.Genre
}

// New builds a graph from genres. Later duplicates of an ID win.
func New(genres []*domain.Genre) *Graph {
	g := &Graph{
		nodes:    make(map[string]*domain.Genre, len(genres)),
		children: make(map[string][]*domain.Genre),
	}
	for _, genre := range genres {
		g.nodes[genre.ID] = genre
	}
	for _, genre := range g.nodes {
		for _, p := range genre.AllParentIDs() {
			g.children[p] = append(g.children[p], genre)
		}
	}
	for _, kids := range g.children {
		slices.SortFunc(kids, func(a, b *domain.Genre) int {
			if c := cmp.Compare(a.Name, b.Name); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
	}
	return g
}

// Has reports whether id is in the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Get returns the genre with id or a NOT_FOUND error.
func (g *Graph) Get(id string) (*domain.Genre, error) {
	genre, ok := g.nodes[id]
	if !ok {
		return nil, domainerrors.NotFoundf("Genre '%s' not found", id)
	}
	return genre, nil
}

// Children returns the genres naming id as primary parent or in their
// parent set, ordered by name then ID. The result is never nil.
func (g *Graph) Children(id string) []*domain.Genre {
	return append([]*domain.Genre{}, g.children[id]...)
}

// Ancestors returns every genre reachable from id by following parent edges.
// The result excludes id unless id sits on a cycle.
func (g *Graph) Ancestors(id string) []string {
	seen := make(map[string]bool)
	var out []string
	stack := g.parentIDs(id)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		stack = append(stack, g.parentIDs(cur)...)
	}
	slices.Sort(out)
	return out
}

func (g *Graph) parentIDs(id string) []string {
	genre, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return genre.AllParentIDs()
}

// IsSelfParent reports whether genre names itself as primary parent or in its parent set.
func IsSelfParent(genre *domain.Genre) bool {
	return genre.HasParent(genre.ID)
}

// WouldCycle reports whether giving childID the parents parentIDs would
// make childID its own ancestor. It returns the first offending parent.
// The child's current edges are ignored; parentIDs replaces them.
func (g *Graph) WouldCycle(childID string, parentIDs []string) (string, bool) {
	for _, p := range domain.NormalizeIDs(parentIDs) {
		if p == childID {
			return p, true
		}
		if p == "" || !g.Has(p) {
			continue
		}
		if slices.Contains(g.Ancestors(p), childID) {
			return p, true
		}
	}
	return "", false
}
