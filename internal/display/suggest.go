package display

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/rbdoc/internal/docdb"
)

// DefaultSuggestThreshold is the minimum Jaro-Winkler similarity for a suggestion.
const DefaultSuggestThreshold = 0.75

type suggestion struct {
	path  string
	score float32
}

// Suggest returns object paths that look like query, most similar first.
// Both the full path and the bare name are compared, so "Persn" finds
// People::Person.
func Suggest(db *docdb.Database, query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var found []suggestion
	for _, obj := range db.All() {
		path := obj.Path()
		score := similarity(query, strings.ToLower(path))
		if s := similarity(query, strings.ToLower(obj.Name)); s > score {
			score = s
		}
		if score >= DefaultSuggestThreshold {
			found = append(found, suggestion{path: path, score: score})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].score != found[j].score {
			return found[i].score > found[j].score
		}
		return found[i].path < found[j].path
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}

	out := make([]string, len(found))
	for i, s := range found {
		out[i] = s.path
	}
	return out
}

func similarity(a, b string) float32 {
	if a == b {
		return 1
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0
	}
	return score
}
