// Package vectorizer turns diagnosis text into TF-IDF vectors and ranks stored
// vectors by cosine similarity. Everything here is pure, in-memory computation.
package vectorizer

import (
	"strings"
)

// Tokenize lowercases text, strips every character that is neither an ASCII
// word character ([A-Za-z0-9_]) nor whitespace, and splits on whitespace.
// No stemming and no stopword removal.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)

	var sb strings.Builder
	sb.Grow(len(lowered))
	for _, r := range lowered {
		if isWordRune(r) || isSpace(r) {
			sb.WriteRune(r)
		}
	}

	return strings.FieldsFunc(sb.String(), isSpace)
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// isSpace reports the regex \s class. Unlike unicode.IsSpace, U+0085 is not
// a space and U+FEFF is.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}
