package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGraph(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t, "admin")

	resp := ts.api.Put("/api/v1/genres/groove-metal", bearer(token), map[string]any{
		"name":       "Groove Metal",
		"type":       "leaf",
		"parent_id":  "metal",
		"parent_ids": []string{"metal", "thrash-metal"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	tests := []struct {
		query string
		edges string
		want  int
	}{
		{"", "legacy", 4},
		{"?edges=legacy", "legacy", 4},
		{"?edges=all", "all", 5},
	}
	for _, tt := range tests {
		t.Run(tt.edges+tt.query, func(t *testing.T) {
			resp := ts.api.Get("/api/v1/graph" + tt.query)
			require.Equal(t, http.StatusOK, resp.Code)

			var env testEnvelope[GraphResponse]
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
			assert.Equal(t, tt.edges, env.Data.Edges)
			assert.Len(t, env.Data.Genres, 5)
			assert.Len(t, env.Data.Bands, 4)
			assert.Len(t, env.Data.Connections, tt.want)
		})
	}

	resp = ts.api.Get("/api/v1/graph?edges=sideways")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
