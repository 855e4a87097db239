package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	"github.com/musicgraph/musicgraph-server/internal/service"
)

func (s *Server) registerBandRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBands",
		Method:      http.MethodGet,
		Path:        "/api/v1/bands",
		Summary:     "List bands",
		Tags:        []string{"Bands"},
	}, s.handleListBands)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBand",
		Method:        http.MethodPost,
		Path:          "/api/v1/bands",
		Summary:       "Create band",
		Description:   "Creates a band. The primary genre must be a leaf and one of the band's genres.",
		Tags:          []string{"Bands"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBand)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBand",
		Method:      http.MethodGet,
		Path:        "/api/v1/bands/{id}",
		Summary:     "Get band",
		Tags:        []string{"Bands"},
	}, s.handleGetBand)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBand",
		Method:      http.MethodPut,
		Path:        "/api/v1/bands/{id}",
		Summary:     "Update band",
		Tags:        []string{"Bands"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBand)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBand",
		Method:      http.MethodDelete,
		Path:        "/api/v1/bands/{id}",
		Summary:     "Delete band",
		Tags:        []string{"Bands"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBand)
}

// === DTOs ===

// BandResponse is a band in API responses.
type BandResponse struct {
	ID             string    `json:"id" doc:"Band ID (slug)"`
	Name           string    `json:"name" doc:"Band name"`
	PrimaryGenreID string    `json:"primary_genre_id" doc:"Primary leaf genre"`
	GenreIDs       []string  `json:"genre_ids" doc:"Every genre the band is tagged with"`
	CreatedAt      time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt      time.Time `json:"updated_at" doc:"Last update time"`
}

// BandRequest is the body of a band create or update.
type BandRequest struct {
	ID             string   `json:"id,omitempty" doc:"Band ID; ignored on update"`
	Name           string   `json:"name,omitempty" doc:"Band name"`
	PrimaryGenreID string   `json:"primary_genre_id,omitempty" doc:"Primary leaf genre"`
	GenreIDs       []string `json:"genre_ids,omitempty" doc:"Every genre the band is tagged with"`
}

type ListBandsOutput struct {
	Body []BandResponse
}

type BandOutput struct {
	Body BandResponse
}

type BandIDInput struct {
	ID string `path:"id" doc:"Band ID"`
}

type CreateBandInput struct {
	Body BandRequest
}

type UpdateBandInput struct {
	ID   string `path:"id" doc:"Band ID"`
	Body BandRequest
}

// === Handlers ===

func (s *Server) handleListBands(ctx context.Context, _ *struct{}) (*ListBandsOutput, error) {
	bands, err := s.services.Band.ListBands(ctx)
	if err != nil {
		return nil, err
	}
	return &ListBandsOutput{Body: mapBands(bands)}, nil
}

func (s *Server) handleGetBand(ctx context.Context, input *BandIDInput) (*BandOutput, error) {
	b, err := s.services.Band.GetBand(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BandOutput{Body: mapBand(b)}, nil
}

func (s *Server) handleCreateBand(ctx context.Context, input *CreateBandInput) (*BandOutput, error) {
	b, err := s.services.Band.CreateBand(ctx, PrincipalFrom(ctx), input.Body.toService())
	if err != nil {
		return nil, err
	}
	return &BandOutput{Body: mapBand(b)}, nil
}

func (s *Server) handleUpdateBand(ctx context.Context, input *UpdateBandInput) (*BandOutput, error) {
	b, err := s.services.Band.UpdateBand(ctx, PrincipalFrom(ctx), input.ID, input.Body.toService())
	if err != nil {
		return nil, err
	}
	return &BandOutput{Body: mapBand(b)}, nil
}

func (s *Server) handleDeleteBand(ctx context.Context, input *BandIDInput) (*MessageOutput, error) {
	if err := s.services.Band.DeleteBand(ctx, PrincipalFrom(ctx), input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Band deleted"}}, nil
}

// === Helpers ===

func (r BandRequest) toService() service.BandRequest {
	return service.BandRequest{
		ID:             r.ID,
		Name:           r.Name,
		PrimaryGenreID: r.PrimaryGenreID,
		GenreIDs:       r.GenreIDs,
	}
}

func mapBand(b *domain.Band) BandResponse {
	genres := b.GenreIDs
	if genres == nil {
		genres = []string{}
	}
	return BandResponse{
		ID:             b.ID,
		Name:           b.Name,
		PrimaryGenreID: b.PrimaryGenreID,
		GenreIDs:       genres,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func mapBands(bands []*domain.Band) []BandResponse {
	out := make([]BandResponse, len(bands))
	for i, b := range bands {
		out[i] = mapBand(b)
	}
	return out
}
