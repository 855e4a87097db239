package service

import (
	"context"
	"testing"

	domainerrors "github.com/musicgraph/musicgraph-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandService_CreateBand(t *testing.T) {
	_, svc := newTestGenreService(t, true)
	ctx := context.Background()

	b, err := svc.CreateBand(ctx, testAdmin, BandRequest{
		ID:             "lamb-of-god",
		Name:           "Lamb of God",
		PrimaryGenreID: "groove-metal",
		GenreIDs:       []string{"thrash-metal", "groove-metal"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"groove-metal", "thrash-metal"}, b.GenreIDs)

	got, err := svc.GetBand(ctx, "lamb-of-god")
	require.NoError(t, err)
	assert.Equal(t, "Lamb of God", got.Name)
	assert.Equal(t, "groove-metal", got.PrimaryGenreID)
	assert.True(t, got.HasGenre(got.PrimaryGenreID))

	tagged, err := svc.ListBandsByGenre(ctx, "thrash-metal")
	require.NoError(t, err)
	var ids []string
	for _, b := range tagged {
		ids = append(ids, b.ID)
	}
	assert.ElementsMatch(t, []string{"anthrax", "lamb-of-god", "pantera"}, ids)
}

func TestBandService_CreateBand_ValidationMessages(t *testing.T) {
	tests := []struct {
		name string
		req  BandRequest
		want []string
	}{
		{
			name: "empty request",
			req:  BandRequest{},
			want: []string{
				"ID is required",
				"Name is required",
				"Primary genre is required",
				"At least one genre must be selected",
			},
		},
		{
			name: "duplicate id",
			req:  BandRequest{ID: "pantera", Name: "Pantera", PrimaryGenreID: "groove-metal", GenreIDs: []string{"groove-metal"}},
			want: []string{"Band ID 'pantera' already exists"},
		},
		{
			name: "non-leaf primary",
			req:  BandRequest{ID: "metallica", Name: "Metallica", PrimaryGenreID: "metal", GenreIDs: []string{"metal"}},
			want: []string{"Primary genre must be a 'leaf' genre. 'Metal' is type 'intermediate'"},
		},
		{
			name: "primary outside set",
			req:  BandRequest{ID: "obituary", Name: "Obituary", PrimaryGenreID: "death-metal", GenreIDs: []string{"thrash-metal"}},
			want: []string{"Primary genre must be one of the selected genres"},
		},
		{
			name: "primary without genre set",
			req:  BandRequest{ID: "obituary", Name: "Obituary", PrimaryGenreID: "death-metal"},
			want: []string{
				"At least one genre must be selected",
				"Primary genre must be one of the selected genres",
			},
		},
		{
			name: "unknown genres",
			req:  BandRequest{ID: "miles", Name: "Miles", PrimaryGenreID: "jazz", GenreIDs: []string{"blues", "jazz"}},
			want: []string{"Primary genre 'jazz' does not exist", "Genre 'blues' does not exist"},
		},
		{
			name: "bad id characters",
			req:  BandRequest{ID: "Sepultura!", Name: "Sepultura", PrimaryGenreID: "thrash-metal", GenreIDs: []string{"thrash-metal"}},
			want: []string{"ID must contain only lowercase letters, numbers, and hyphens"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, svc := newTestGenreService(t, true)
			before, err := svc.ListBands(context.Background())
			require.NoError(t, err)

			_, err = svc.CreateBand(context.Background(), testAdmin, tt.req)
			assertCode(t, err, domainerrors.CodeValidation)
			assert.Equal(t, tt.want, domainerrors.Messages(err))

			after, err := svc.ListBands(context.Background())
			require.NoError(t, err)
			assert.Len(t, after, len(before))
		})
	}
}

func TestBandService_UpdateBand(t *testing.T) {
	_, svc := newTestGenreService(t, true)
	ctx := context.Background()

	b, err := svc.UpdateBand(ctx, testAdmin, "pantera", BandRequest{
		Name:           "Pantera",
		PrimaryGenreID: "thrash-metal",
		GenreIDs:       []string{"thrash-metal"},
	})
	require.NoError(t, err)
	assert.Equal(t, "thrash-metal", b.PrimaryGenreID)

	got, err := svc.GetBand(ctx, "pantera")
	require.NoError(t, err)
	assert.Equal(t, []string{"thrash-metal"}, got.GenreIDs)
}

func TestBandService_UpdateBand_LeafCheckUsesGenreName(t *testing.T) {
	_, svc := newTestGenreService(t, true)
	ctx := context.Background()

	_, err := svc.UpdateBand(ctx, testAdmin, "pantera", BandRequest{
		Name:           "Pantera",
		PrimaryGenreID: "rock",
		GenreIDs:       []string{"groove-metal"},
	})
	assertCode(t, err, domainerrors.CodeValidation)
	assert.Equal(t, []string{
		"Primary genre must be a 'leaf' genre. 'Rock' is type 'root'",
		"Primary genre must be one of the selected genres",
	}, domainerrors.Messages(err))

	got, err := svc.GetBand(ctx, "pantera")
	require.NoError(t, err)
	assert.Equal(t, "groove-metal", got.PrimaryGenreID)
	assert.Equal(t, []string{"groove-metal", "thrash-metal"}, got.GenreIDs)
}

func TestBandService_UpdateBand_NotFound(t *testing.T) {
	_, svc := newTestGenreService(t, true)

	_, err := svc.UpdateBand(context.Background(), testAdmin, "metallica", BandRequest{})
	assertCode(t, err, domainerrors.CodeNotFound)
	assert.Equal(t, []string{"Band 'metallica' not found"}, domainerrors.Messages(err))
}

func TestBandService_DeleteBand(t *testing.T) {
	_, svc := newTestGenreService(t, true)
	ctx := context.Background()

	require.NoError(t, svc.DeleteBand(ctx, testAdmin, "death"))

	_, err := svc.GetBand(ctx, "death")
	assertCode(t, err, domainerrors.CodeNotFound)

	err = svc.DeleteBand(ctx, testAdmin, "death")
	assertCode(t, err, domainerrors.CodeNotFound)
}
