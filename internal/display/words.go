package display

import (
	"strings"
	"unicode"

	"github.com/surgebase/porter2"
)

// minStemLength keeps short words like "id" and "at" intact
const minStemLength = 3

// splitWords breaks identifiers and prose into lowercase words. Identifiers
// split on snake_case, CamelCase and namespace separators.
func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && len(cur) > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			// fooBar, and the R in HTTPRequest
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func stem(word string) string {
	if len(word) < minStemLength {
		return word
	}
	return porter2.Stem(word)
}

func stemAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, stem(w))
	}
	return out
}
