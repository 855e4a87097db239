package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseGenreType(t *testing.T) {
	tests := []struct {
		in    string
		want  GenreType
		valid bool
	}{
		{"leaf", GenreTypeLeaf, true},
		{" Intermediate ", GenreTypeIntermediate, true},
		{"ROOT", GenreTypeRoot, true},
		{"subgenre", GenreType("subgenre"), false},
		{"", GenreType(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseGenreType(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestGenre_Parents(t *testing.T) {
	g := &Genre{
		Syncable:  Syncable{ID: "blackened-death"},
		Type:      GenreTypeLeaf,
		ParentID:  "death-metal",
		ParentIDs: []string{"black-metal"},
	}

	assert.True(t, g.HasParent("death-metal"))
	assert.True(t, g.HasParent("black-metal"))
	assert.False(t, g.HasParent("rock"))
	assert.Equal(t, []string{"black-metal", "death-metal"}, g.AllParentIDs())
	assert.True(t, g.IsLeaf())

	root := &Genre{Syncable: Syncable{ID: "rock"}, Type: GenreTypeRoot}
	assert.Empty(t, root.AllParentIDs())
}

func TestNormalizeIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, NormalizeIDs([]string{"b", " a", "", "b", "a "}))
	assert.NotNil(t, NormalizeIDs(nil))
}

func TestBand_Genres(t *testing.T) {
	b := &Band{PrimaryGenreID: "groove-metal", GenreIDs: []string{"groove-metal", "thrash-metal"}}

	assert.True(t, b.HasGenre("thrash-metal"))
	assert.False(t, b.HasGenre("metal"))
	assert.Equal(t, []string{"thrash-metal"}, b.SecondaryGenreIDs())
}

func TestPrincipal_Is(t *testing.T) {
	var anon *Principal
	assert.False(t, anon.Is("user-1"))

	u := &User{Syncable: Syncable{ID: "user-1"}, Username: "admin", IsAdmin: true}
	p := u.Principal()
	assert.True(t, p.Is("user-1"))
	assert.True(t, p.IsAdmin)
}

func TestSession_IsExpired(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.IsExpired(now))
	assert.True(t, s.IsExpired(now.Add(time.Minute)))
}
