package genre

// CanonicalAliases maps common spellings and abbreviations to canonical genre IDs.
// Search uses it to expand free-text queries.
var CanonicalAliases = map[string][]string{
	// Metal shorthand
	"thrash":     {"thrash-metal"},
	"groove":     {"groove-metal"},
	"death":      {"death-metal"},
	"dm":         {"death-metal"},
	"black":      {"black-metal"},
	"bm":         {"black-metal"},
	"doom":       {"doom-metal"},
	"heavy":      {"heavy-metal"},
	"nwobhm":     {"heavy-metal"},
	"metalcore":  {"metalcore"},
	"nu-metal":   {"nu-metal"},
	"numetal":    {"nu-metal"},
	"prog-metal": {"progressive-metal"},
	"djent":      {"progressive-metal"},

	// Rock variations
	"rock-n-roll":   {"rock"},
	"rock-and-roll": {"rock"},
	"rocknroll":     {"rock"},
	"prog":          {"progressive-rock"},
	"prog-rock":     {"progressive-rock"},
	"alt-rock":      {"alternative-rock"},
	"alternative":   {"alternative-rock"},
	"grunge":        {"grunge"},
	"punk":          {"punk-rock"},

	// Electronic
	"edm":         {"electronic"},
	"dnb":         {"drum-and-bass"},
	"drum-n-bass": {"drum-and-bass"},
	"drum-bass":   {"drum-and-bass"},

	// Hip hop
	"hip-hop": {"hip-hop"},
	"hiphop":  {"hip-hop"},
	"rap":     {"hip-hop"},
}

// NormalizeToSlugs takes a raw genre string and returns canonical ID(s).
// Returns the slugified input if no mapping is found.
func NormalizeToSlugs(raw string) []string {
	slug := Slugify(raw)
	if canonical, ok := CanonicalAliases[slug]; ok {
		return canonical
	}
	if slug == "" {
		return nil
	}
	return []string{slug}
}
