package genre

import "github.com/musicgraph/musicgraph-server/internal/domain"

// GenreSeed defines a genre for seeding.
// ID defaults to Slugify(Name) when empty.
type GenreSeed struct {
	ID      string   `yaml:"id" json:"id" validate:"omitempty,slug"`
	Name    string   `yaml:"name" json:"name" validate:"required"`
	Type    string   `yaml:"type" json:"type" validate:"required,oneof=root intermediate leaf"`
	Parent  string   `yaml:"parent,omitempty" json:"parent,omitempty" validate:"omitempty,slug"`
	Parents []string `yaml:"parents,omitempty" json:"parents,omitempty" validate:"dive,slug"`
}

// BandSeed defines a band for seeding.
type BandSeed struct {
	ID      string   `yaml:"id" json:"id" validate:"omitempty,slug"`
	Name    string   `yaml:"name" json:"name" validate:"required"`
	Primary string   `yaml:"primary" json:"primary" validate:"required,slug"`
	Genres  []string `yaml:"genres" json:"genres" validate:"required,min=1,dive,slug"`
}

// Taxonomy is a full seed document. Genres must be listed parents first.
type Taxonomy struct {
	Genres []GenreSeed `yaml:"genres" json:"genres" validate:"dive"`
	Bands  []BandSeed  `yaml:"bands" json:"bands" validate:"dive"`
}

// GenreID returns the explicit ID or one derived from the name.
func (g GenreSeed) GenreID() string {
	if g.ID != "" {
		return g.ID
	}
	return Slugify(g.Name)
}

// BandID returns the explicit ID or one derived from the name.
func (b BandSeed) BandID() string {
	if b.ID != "" {
		return b.ID
	}
	return Slugify(b.Name)
}

// DefaultTaxonomy is the starter graph loaded by `seed` and SEED_DEFAULTS.
var DefaultTaxonomy = Taxonomy{
	Genres: []GenreSeed{
		{ID: "rock", Name: "Rock", Type: string(domain.GenreTypeRoot)},
		{ID: "metal", Name: "Metal", Type: string(domain.GenreTypeIntermediate), Parent: "rock", Parents: []string{"rock"}},
		{ID: "death-metal", Name: "Death Metal", Type: string(domain.GenreTypeLeaf), Parent: "metal", Parents: []string{"metal"}},
		{ID: "groove-metal", Name: "Groove Metal", Type: string(domain.GenreTypeLeaf), Parent: "metal", Parents: []string{"metal"}},
		{ID: "thrash-metal", Name: "Thrash Metal", Type: string(domain.GenreTypeLeaf), Parent: "metal", Parents: []string{"metal"}},
	},
	Bands: []BandSeed{
		{ID: "pantera", Name: "Pantera", Primary: "groove-metal", Genres: []string{"groove-metal", "thrash-metal"}},
		{ID: "death", Name: "Death", Primary: "death-metal", Genres: []string{"death-metal"}},
		{ID: "cannibalcorpse", Name: "Cannibal Corpse", Primary: "death-metal", Genres: []string{"death-metal"}},
		{ID: "anthrax", Name: "Anthrax", Primary: "thrash-metal", Genres: []string{"thrash-metal"}},
	},
}
