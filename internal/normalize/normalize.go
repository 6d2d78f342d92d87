// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns free-text titles and filenames into comparison keys.
package normalize

import (
	"strings"
	"unicode"
)

// Normalize returns the comparison key for a title: lowercased, with
// underscores, dashes, and whitespace folded to single spaces and every
// other character outside [a-z0-9 ] removed. Normalize(Normalize(s)) is
// always equal to Normalize(s). Blank input yields "".
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			b.WriteByte(' ')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Valid reports whether key may be used as an index key. Empty keys never are.
func Valid(key string) bool {
	return key != ""
}

// Slug returns a filesystem- and URL-safe identifier for a title, e.g.
// "The Conquest of Bread" becomes "the-conquest-of-bread".
func Slug(raw string) string {
	return strings.ReplaceAll(Normalize(raw), " ", "-")
}
