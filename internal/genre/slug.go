// Package genre provides genre ID rules, slug generation, name aliases, and the default taxonomy.
package genre

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// IDPattern is the allowed shape of genre and band IDs.
const IDPattern = `^[a-z0-9-]+$`

var (
	validID = regexp.MustCompile(IDPattern)

	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
)

// ValidID reports whether id contains only lowercase letters, digits, and hyphens.
func ValidID(id string) bool {
	return validID.MatchString(id)
}

// Slugify converts a display name to an ID that satisfies ValidID.
// "Death Metal" -> "death-metal".
// "Motörhead" -> "motorhead".
// "Drum & Bass" -> "drum-bass".
func Slugify(s string) string {
	// Decompose accents so the base letter survives the ASCII filter.
	s = norm.NFKD.String(s)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
