package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/musicgraph/musicgraph-server/internal/genre"
)

// Sort orders accepted by SearchParams.SortBy.
const (
	SortRelevance = "relevance"
	SortName      = "name"
	SortRecent    = "recent"
)

// MaxLimit caps SearchParams.Limit.
const MaxLimit = 100

// SearchParams configures a search query.
type SearchParams struct {
	Query     string
	Kinds     []Kind // empty = all
	GenreType string // genres only
	GenreID   string // restrict to documents tagged with this genre

	Limit  int
	Offset int

	SortBy        string
	IncludeFacets bool
	Highlight     bool
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		SortBy:        SortRelevance,
		IncludeFacets: true,
		Highlight:     true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID         string            `json:"id"`
	Kind       Kind              `json:"kind"`
	Score      float64           `json:"score"`
	Name       string            `json:"name"`
	GenreType  string            `json:"genre_type,omitempty"`
	GenreIDs   []string          `json:"genre_ids,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// SearchFacets contains facet counts.
type SearchFacets struct {
	Kinds      []FacetCount `json:"kinds,omitempty"`
	GenreTypes []FacetCount `json:"genre_types,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultSearchParams().Limit
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	addSorting(searchRequest, params)

	if params.IncludeFacets {
		searchRequest.AddFacet("kind", bleve.NewFacetRequest("kind", 2))
		searchRequest.AddFacet("genre_type", bleve.NewFacetRequest("genre_type", 3))
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("name")
	}

	searchRequest.Fields = []string{"id", "kind", "name", "genre_type", "genre_ids"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{Score: hit.Score}

		if id, ok := hit.Fields["id"].(string); ok {
			searchHit.ID = id
		}
		if k, ok := hit.Fields["kind"].(string); ok {
			searchHit.Kind = Kind(k)
		}
		if n, ok := hit.Fields["name"].(string); ok {
			searchHit.Name = n
		}
		if gt, ok := hit.Fields["genre_type"].(string); ok {
			searchHit.GenreType = gt
		}
		searchHit.GenreIDs = stringsField(hit.Fields["genre_ids"])

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
//
// Free text matches names (exact, fuzzy and prefix). It is also resolved
// through the genre alias table; each resolved slug matches the genre
// itself and every band tagged with it.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		textQueries := []query.Query{}

		nameMatch := bleve.NewMatchQuery(q)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)
		textQueries = append(textQueries, nameMatch)

		fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("name")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars)
		if len(q) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(q))
			prefixQuery.SetField("name")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		aliasQuery := bleve.NewTermQuery(genre.Slugify(q))
		aliasQuery.SetField("aliases")
		aliasQuery.SetBoost(2.0)
		textQueries = append(textQueries, aliasQuery)

		for _, slug := range genre.NormalizeToSlugs(q) {
			idQuery := bleve.NewTermQuery(slug)
			idQuery.SetField("id")
			idQuery.SetBoost(2.5)
			textQueries = append(textQueries, idQuery)

			taggedQuery := bleve.NewTermQuery(slug)
			taggedQuery.SetField("genre_ids")
			taggedQuery.SetBoost(1.0)
			textQueries = append(textQueries, taggedQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if len(params.Kinds) > 0 {
		kindQueries := make([]query.Query, len(params.Kinds))
		for i, k := range params.Kinds {
			kq := bleve.NewTermQuery(string(k))
			kq.SetField("kind")
			kindQueries[i] = kq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(kindQueries...))
	}

	if params.GenreType != "" {
		tq := bleve.NewTermQuery(params.GenreType)
		tq.SetField("genre_type")
		queries = append(queries, tq)
	}

	if params.GenreID != "" {
		gq := bleve.NewTermQuery(params.GenreID)
		gq.SetField("genre_ids")
		queries = append(queries, gq)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case SortName:
		req.SortBy([]string{"name_key", "id"})
	case SortRecent:
		req.SortBy([]string{"-updated_at", "id"})
	default:
		req.SortBy([]string{"-_score", "name_key"})
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) SearchFacets {
	facets := SearchFacets{}

	if kindFacet, ok := result.Facets["kind"]; ok && kindFacet.Terms != nil {
		for _, term := range kindFacet.Terms.Terms() {
			facets.Kinds = append(facets.Kinds, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	if typeFacet, ok := result.Facets["genre_type"]; ok && typeFacet.Terms != nil {
		for _, term := range typeFacet.Terms.Terms() {
			facets.GenreTypes = append(facets.GenreTypes, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	return facets
}

// stringsField normalizes a stored multi-value field, which Bleve returns as
// a string for one value and []any for several.
func stringsField(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
