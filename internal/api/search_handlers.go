package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/musicgraph/musicgraph-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search",
		Description: "Full-text search over genres and bands",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchInput contains search query parameters.
type SearchInput struct {
	Query     string   `query:"q" doc:"Search text"`
	Kinds     []string `query:"kind" doc:"Restrict to genre or band"`
	GenreType string   `query:"genre_type" doc:"Restrict genres to a type"`
	GenreID   string   `query:"genre_id" doc:"Restrict to documents tagged with this genre"`
	Limit     int      `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Page size"`
	Offset    int      `query:"offset" minimum:"0" doc:"Page offset"`
	Sort      string   `query:"sort" enum:"relevance,name,recent" default:"relevance" doc:"Sort order"`
}

type SearchOutput struct {
	Body search.SearchResult
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.GenreType = input.GenreType
	params.GenreID = input.GenreID
	params.Offset = input.Offset
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	if input.Sort != "" {
		params.SortBy = input.Sort
	}
	for _, k := range input.Kinds {
		params.Kinds = append(params.Kinds, search.Kind(k))
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: *result}, nil
}
