// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package author recovers author names from document filenames and plans
// author write-backs to the store.
package author

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/doc-reconcile/pkg/types"
)

// Rule names reported in AuthorExtraction.Rule.
const (
	RuleDoubleDash          = "double_dash_author"
	RuleDashBeforePublisher = "dash_before_publisher"
	RuleBracketed           = "bracketed_author"
	RuleParenthetical       = "parenthetical_author"
	RuleUnderscore          = "underscore_author"
	RuleSingleDash          = "single_dash_author"
)

// rule is one filename pattern. apply returns an empty author when the
// pattern does not fit.
type rule struct {
	name  string
	apply func(stem string) (author string, confidence int)
}

// rules are listed highest priority first; on equal confidence the
// earlier rule wins.
var rules = []rule{
	{RuleDoubleDash, doubleDashAuthor},
	{RuleDashBeforePublisher, dashBeforePublisher},
	{RuleBracketed, bracketedAuthor},
	{RuleParenthetical, parentheticalAuthor},
	{RuleUnderscore, underscoreAuthor},
	{RuleSingleDash, singleDashAuthor},
}

// Extract runs every rule against filename and returns the plausible
// candidate with the highest confidence. When nothing fits the result has
// zero confidence and no author.
func Extract(filename string) types.AuthorExtraction {
	stem := Stem(filename)
	var best types.AuthorExtraction
	for _, r := range rules {
		name, confidence := r.apply(stem)
		if name == "" || confidence <= best.Confidence {
			continue
		}
		if !IsPlausibleAuthorName(name) {
			continue
		}
		best = types.AuthorExtraction{Author: name, Confidence: confidence, Rule: r.name}
	}
	return best
}

// Stem strips the directory and a short file extension from filename.
// Dots inside a title ("Vol. 2") are kept.
func Stem(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	if ext != "" && len(ext) <= 6 && !strings.ContainsAny(ext, " \t") {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.TrimSpace(base)
}

// doubleDashAuthor handles "Title -- Author -- Publisher ...". The middle
// segment is accepted only when what follows it is recognizably metadata.
func doubleDashAuthor(stem string) (string, int) {
	parts := strings.Split(stem, "--")
	if len(parts) < 3 {
		return "", 0
	}
	candidate := strings.TrimSpace(parts[1])
	trailing := strings.TrimSpace(strings.Join(parts[2:], "--"))
	if !hasPublisherKeyword(trailing) && len(trailing) <= 40 {
		return "", 0
	}
	return candidate, 90
}

// dashBeforePublisher handles slugged names such as
// "mutual-aid-peter-kropotkin-penguin-classics": the tokens right before
// the first publisher keyword are the author. Three tokens are taken only
// when the middle one is an initial ("emma-m-goldman"); a full middle name
// is indistinguishable from a title word, so "pierre-joseph-proudhon"
// yields "Joseph Proudhon".
func dashBeforePublisher(stem string) (string, int) {
	var tokens []string
	for _, t := range strings.Split(stem, "-") {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	idx := -1
	for i, t := range tokens {
		if isPublisherToken(t) {
			idx = i
			break
		}
	}
	if idx < 2 {
		return "", 0
	}
	if idx >= 3 && isInitial(tokens[idx-2]) && allNameTokens(tokens[idx-3:idx]) {
		if name := titleCase(strings.Join(tokens[idx-3:idx], " ")); IsPlausibleAuthorName(name) {
			return name, 85
		}
	}
	if allNameTokens(tokens[idx-2 : idx]) {
		return titleCase(strings.Join(tokens[idx-2:idx], " ")), 80
	}
	return "", 0
}

var bracketPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// bracketedAuthor handles "[Author Name] Title" and "Title [Author Name]".
func bracketedAuthor(stem string) (string, int) {
	m := bracketPattern.FindStringSubmatch(stem)
	if m == nil {
		return "", 0
	}
	return strings.TrimSpace(m[1]), 75
}

var parenPattern = regexp.MustCompile(`\(([^()]+)\)`)

// parentheticalAuthor handles "Title (Author Name)"; the last group wins.
func parentheticalAuthor(stem string) (string, int) {
	all := parenPattern.FindAllStringSubmatch(stem, -1)
	if len(all) == 0 {
		return "", 0
	}
	return strings.TrimSpace(all[len(all)-1][1]), 70
}

var underscoreByPattern = regexp.MustCompile(`(?i)_by_([a-z.']+(?:_[a-z.']+){1,3})$`)

// underscoreAuthor handles "Title_by_First_Last".
func underscoreAuthor(stem string) (string, int) {
	m := underscoreByPattern.FindStringSubmatch(stem)
	if m == nil {
		return "", 0
	}
	return titleCase(strings.ReplaceAll(m[1], "_", " ")), 65
}

// singleDashAuthor handles "First Last - Title".
func singleDashAuthor(stem string) (string, int) {
	if strings.Contains(stem, "--") {
		return "", 0
	}
	parts := strings.Split(stem, " - ")
	if len(parts) != 2 {
		return "", 0
	}
	return strings.TrimSpace(parts[0]), 60
}

// titleCase builds a fresh Caser per call; Casers are stateful and
// Extract must stay safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

func isInitial(tok string) bool {
	tok = strings.TrimSuffix(tok, ".")
	return len(tok) == 1 && unicode.IsLetter(rune(tok[0]))
}

// allNameTokens reports whether every token is made of letters, apostrophes,
// and periods only.
func allNameTokens(tokens []string) bool {
	for _, t := range tokens {
		for _, r := range t {
			if !unicode.IsLetter(r) && r != '\'' && r != '.' {
				return false
			}
		}
	}
	return true
}
