// Package textproc holds the text cleaning shared by training and inference.
// Both sides must go through Normalize; any divergence silently degrades the
// model instead of failing.
package textproc

import (
	"regexp"
	"strings"
	"unicode"
)

// MinWordLength is the shortest word kept by Normalize.
const MinWordLength = 3

var urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)

// Normalize lowercases text, strips URLs, drops every character outside
// [a-z0-9 ], removes words shorter than MinWordLength and collapses spaces.
// It is pure and idempotent.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	lowered = urlPattern.ReplaceAllString(lowered, "")

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}

	return strings.Join(keepLongWords(strings.Fields(b.String())), " ")
}

// Tokenize splits normalized text into words.
func Tokenize(normalized string) []string {
	return strings.Fields(normalized)
}

func keepLongWords(words []string) []string {
	kept := words[:0]
	for _, w := range words {
		if len(w) >= MinWordLength {
			kept = append(kept, w)
		}
	}
	return kept
}
