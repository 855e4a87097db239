package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	"github.com/musicgraph/musicgraph-server/internal/service"
)

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Description: "Returns every genre ordered by ID",
		Tags:        []string{"Genres"},
	}, s.handleListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createGenre",
		Method:        http.MethodPost,
		Path:          "/api/v1/genres",
		Summary:       "Create genre",
		Description:   "Creates a genre. Every validation failure is listed in details.",
		Tags:          []string{"Genres"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGenre",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres/{id}",
		Summary:     "Get genre",
		Description: "Returns a genre by ID",
		Tags:        []string{"Genres"},
	}, s.handleGetGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGenre",
		Method:      http.MethodPut,
		Path:        "/api/v1/genres/{id}",
		Summary:     "Update genre",
		Description: "Replaces a genre's name, type and parents",
		Tags:        []string{"Genres"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGenre",
		Method:      http.MethodDelete,
		Path:        "/api/v1/genres/{id}",
		Summary:     "Delete genre",
		Description: "Deletes a genre that has no children and is no band's primary genre",
		Tags:        []string{"Genres"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGenreChildren",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres/{id}/children",
		Summary:     "Get genre children",
		Description: "Returns genres that name this genre as a parent",
		Tags:        []string{"Genres"},
	}, s.handleGetGenreChildren)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGenreBands",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres/{id}/bands",
		Summary:     "Get genre bands",
		Description: "Returns bands tagged with this genre",
		Tags:        []string{"Genres"},
	}, s.handleGetGenreBands)
}

// === DTOs ===

// GenreResponse is a genre in API responses.
type GenreResponse struct {
	ID        string    `json:"id" doc:"Genre ID (slug)"`
	Name      string    `json:"name" doc:"Display name"`
	Type      string    `json:"type" enum:"root,intermediate,leaf" doc:"Position in the hierarchy"`
	ParentID  string    `json:"parent_id,omitempty" doc:"Primary parent genre ID"`
	ParentIDs []string  `json:"parent_ids" doc:"Every parent genre ID"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// GenreRequest is the body of a genre create or update. Fields are
// validated by the service so that every problem is reported at once.
type GenreRequest struct {
	ID        string   `json:"id,omitempty" doc:"Genre ID; ignored on update"`
	Name      string   `json:"name,omitempty" doc:"Display name"`
	Type      string   `json:"type,omitempty" doc:"root, intermediate, or leaf"`
	ParentID  string   `json:"parent_id,omitempty" doc:"Primary parent genre ID; defaults to the first entry of parent_ids"`
	ParentIDs []string `json:"parent_ids,omitempty" doc:"Every parent genre ID"`
}

type ListGenresOutput struct {
	Body []GenreResponse
}

type GenreOutput struct {
	Body GenreResponse
}

type GenreIDInput struct {
	ID string `path:"id" doc:"Genre ID"`
}

type CreateGenreInput struct {
	Body GenreRequest
}

type UpdateGenreInput struct {
	ID   string `path:"id" doc:"Genre ID"`
	Body GenreRequest
}

// === Handlers ===

func (s *Server) handleListGenres(ctx context.Context, _ *struct{}) (*ListGenresOutput, error) {
	genres, err := s.services.Genre.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	return &ListGenresOutput{Body: mapGenres(genres)}, nil
}

func (s *Server) handleGetGenre(ctx context.Context, input *GenreIDInput) (*GenreOutput, error) {
	g, err := s.services.Genre.GetGenre(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: mapGenre(g)}, nil
}

func (s *Server) handleGetGenreChildren(ctx context.Context, input *GenreIDInput) (*ListGenresOutput, error) {
	children, err := s.services.Genre.GetGenreChildren(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ListGenresOutput{Body: mapGenres(children)}, nil
}

func (s *Server) handleGetGenreBands(ctx context.Context, input *GenreIDInput) (*ListBandsOutput, error) {
	if _, err := s.services.Genre.GetGenre(ctx, input.ID); err != nil {
		return nil, err
	}
	bands, err := s.services.Band.ListBandsByGenre(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ListBandsOutput{Body: mapBands(bands)}, nil
}

func (s *Server) handleCreateGenre(ctx context.Context, input *CreateGenreInput) (*GenreOutput, error) {
	g, err := s.services.Genre.CreateGenre(ctx, PrincipalFrom(ctx), input.Body.toService())
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: mapGenre(g)}, nil
}

func (s *Server) handleUpdateGenre(ctx context.Context, input *UpdateGenreInput) (*GenreOutput, error) {
	g, err := s.services.Genre.UpdateGenre(ctx, PrincipalFrom(ctx), input.ID, input.Body.toService())
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: mapGenre(g)}, nil
}

func (s *Server) handleDeleteGenre(ctx context.Context, input *GenreIDInput) (*MessageOutput, error) {
	if err := s.services.Genre.DeleteGenre(ctx, PrincipalFrom(ctx), input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Genre deleted"}}, nil
}

// === Helpers ===

func (r GenreRequest) toService() service.GenreRequest {
	return service.GenreRequest{
		ID:        r.ID,
		Name:      r.Name,
		Type:      r.Type,
		ParentID:  r.ParentID,
		ParentIDs: r.ParentIDs,
	}
}

func mapGenre(g *domain.Genre) GenreResponse {
	parents := g.ParentIDs
	if parents == nil {
		parents = []string{}
	}
	return GenreResponse{
		ID:        g.ID,
		Name:      g.Name,
		Type:      string(g.Type),
		ParentID:  g.ParentID,
		ParentIDs: parents,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func mapGenres(genres []*domain.Genre) []GenreResponse {
	out := make([]GenreResponse, len(genres))
	for i, g := range genres {
		out[i] = mapGenre(g)
	}
	return out
}
