package display

import (
	"sort"
	"strings"

	"github.com/standardbeagle/rbdoc/internal/docdb"
	"github.com/standardbeagle/rbdoc/internal/docstring"
)

// Where a word was found; a word counts once per place.
type hitPlace uint8

const (
	inName hitPlace = 1 << iota
	inDoc
)

func (p hitPlace) score() float64 {
	var s float64
	if p&inName != 0 {
		s += 3
	}
	if p&inDoc != 0 {
		s++
	}
	return s
}

// Match is one search hit.
type Match struct {
	Object *docdb.Object
	Score  float64
}

// SearchIndex maps stemmed words to the objects whose name or documentation
// uses them, so "validates" finds a method documented as "validation".
type SearchIndex struct {
	postings map[string]map[*docdb.Object]hitPlace
}

// NewSearchIndex indexes every object in db.
func NewSearchIndex(db *docdb.Database) *SearchIndex {
	idx := &SearchIndex{postings: make(map[string]map[*docdb.Object]hitPlace)}
	for _, obj := range db.All() {
		for _, w := range stemAll(splitWords(obj.Name)) {
			idx.add(w, obj, inName)
		}
		if obj.Docstring == "" {
			continue
		}
		ds := docstring.Parse(obj.Docstring)
		text := ds.Text
		for _, t := range ds.Tags {
			text += " " + t.ParamName + " " + t.Text
		}
		for _, w := range stemAll(splitWords(text)) {
			idx.add(w, obj, inDoc)
		}
	}
	return idx
}

func (idx *SearchIndex) add(word string, obj *docdb.Object, place hitPlace) {
	objs, ok := idx.postings[word]
	if !ok {
		objs = make(map[*docdb.Object]hitPlace)
		idx.postings[word] = objs
	}
	objs[obj] |= place
}

// Search returns objects matching every word of query, best first. A limit of
// zero returns all matches.
func (idx *SearchIndex) Search(query string, limit int) []Match {
	words := stemAll(splitWords(query))
	if len(words) == 0 {
		return nil
	}

	scores := make(map[*docdb.Object]float64)
	for i, w := range words {
		objs := idx.postings[w]
		if i == 0 {
			for obj, place := range objs {
				scores[obj] = place.score()
			}
			continue
		}
		for obj := range scores {
			place, ok := objs[obj]
			if !ok {
				delete(scores, obj)
				continue
			}
			scores[obj] += place.score()
		}
	}

	matches := make([]Match, 0, len(scores))
	for obj, s := range scores {
		matches = append(matches, Match{Object: obj, Score: s})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return strings.Compare(matches[i].Object.Path(), matches[j].Object.Path()) < 0
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
