package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/musicgraph/musicgraph-server/internal/graph"
)

func (s *Server) registerGraphRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getGraph",
		Method:      http.MethodGet,
		Path:        "/api/v1/graph",
		Summary:     "Genre graph",
		Description: "Returns genres, bands and the derived genre connections. " +
			"edges=legacy uses primary parents only; edges=all adds every parent.",
		Tags: []string{"Graph"},
	}, s.handleGetGraph)
}

// GraphInput selects the edge set.
type GraphInput struct {
	Edges string `query:"edges" enum:"legacy,all" default:"legacy" doc:"Which parent edges to derive connections from"`
}

// EdgeResponse is one undirected genre connection.
type EdgeResponse struct {
	A string `json:"a"`
	B string `json:"b"`
}

// GraphResponse is the full graph snapshot.
type GraphResponse struct {
	Edges       string          `json:"edges" doc:"Edge set used"`
	Genres      []GenreResponse `json:"genres"`
	Bands       []BandResponse  `json:"bands"`
	Connections []EdgeResponse  `json:"connections"`
}

type GraphOutput struct {
	Body GraphResponse
}

func (s *Server) handleGetGraph(ctx context.Context, input *GraphInput) (*GraphOutput, error) {
	mode, edges := graph.ModePrimary, "legacy"
	if input.Edges == "all" {
		mode, edges = graph.ModeAll, "all"
	}

	snap, err := s.services.Graph.Snapshot(ctx, mode)
	if err != nil {
		return nil, err
	}

	conns := make([]EdgeResponse, len(snap.Connections))
	for i, e := range snap.Connections {
		conns[i] = EdgeResponse{A: e.A, B: e.B}
	}
	return &GraphOutput{Body: GraphResponse{
		Edges:       edges,
		Genres:      mapGenres(snap.Genres),
		Bands:       mapBands(snap.Bands),
		Connections: conns,
	}}, nil
}
