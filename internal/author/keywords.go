// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package author

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/doc-reconcile/internal/normalize"
)

// publisherKeywords are words that mark a filename segment as publisher or
// source metadata. A segment containing any of them is never an author.
var publisherKeywords = map[string]bool{
	"akpress":       true,
	"archive":       true,
	"books":         true,
	"cambridge":     true,
	"classics":      true,
	"ebook":         true,
	"edition":       true,
	"harpercollins": true,
	"haymarket":     true,
	"libcom":        true,
	"library":       true,
	"marxists":      true,
	"norton":        true,
	"oxford":        true,
	"penguin":       true,
	"pluto":         true,
	"press":         true,
	"publisher":     true,
	"publishers":    true,
	"publishing":    true,
	"routledge":     true,
	"semiotexte":    true,
	"university":    true,
	"verso":         true,
	"vintage":       true,
	"zed":           true,
}

// isPublisherToken reports whether a single token is a publisher keyword.
func isPublisherToken(tok string) bool {
	return publisherKeywords[normalize.Normalize(tok)]
}

// hasPublisherKeyword reports whether any word of s is a publisher keyword.
func hasPublisherKeyword(s string) bool {
	for _, w := range strings.Fields(normalize.Normalize(s)) {
		if publisherKeywords[w] {
			return true
		}
	}
	return false
}

// IsPlausibleAuthorName reports whether s looks like a personal name:
// 4-80 characters, at least two words, some letters, not shouted in
// capitals, and free of publisher keywords.
func IsPlausibleAuthorName(s string) bool {
	s = strings.TrimSpace(s)
	if n := utf8.RuneCountInString(s); n < 4 || n > 80 {
		return false
	}
	if len(strings.Fields(s)) < 2 {
		return false
	}
	hasLetter, hasLower := false, false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				hasLower = true
			}
		}
	}
	if !hasLetter || !hasLower {
		return false
	}
	return !hasPublisherKeyword(s)
}
