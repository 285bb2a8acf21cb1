// Package search filters the loaded planet list by name.
package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sfuzzy "github.com/sahilm/fuzzy"

	"github.com/mmcdole/holocron/internal/domain"
)

// Result is one matching planet
type Result struct {
	Planet         domain.Planet
	Index          int   // position in the input planets slice
	MatchedIndexes []int // rune positions in the name, for highlighting
	Score          int   // higher is better
}

// Index implements sahilm/fuzzy.Source over planet names
type Index struct {
	planets     []domain.Planet
	lowerTitles []string
}

// NewIndex builds an index over planets
func NewIndex(planets []domain.Planet) *Index {
	idx := &Index{
		planets:     planets,
		lowerTitles: make([]string, len(planets)),
	}
	for i, p := range planets {
		idx.lowerTitles[i] = strings.ToLower(p.GetTitle())
	}
	return idx
}

// String returns the lowercase name at i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of planets (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.planets) }

// Filter returns planets matching query, best first.
// An empty query returns nil. Subsequence matches come from sahilm/fuzzy;
// when there are none, names within a small edit distance are returned
// so a typo like "tatoine" still finds Tatooine.
func Filter(query string, planets []domain.Planet) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(planets) == 0 {
		return nil
	}

	idx := NewIndex(planets)
	matches := sfuzzy.FindFrom(query, idx)
	if len(matches) > 0 {
		results := make([]Result, len(matches))
		for i, m := range matches {
			results[i] = Result{
				Planet:         planets[m.Index],
				Index:          m.Index,
				MatchedIndexes: m.MatchedIndexes,
				Score:          m.Score,
			}
		}
		return results
	}

	return typoMatches(query, idx)
}

// typoMatches ranks names by Levenshtein distance to query
func typoMatches(query string, idx *Index) []Result {
	maxTypos := allowedTypos(len([]rune(query)))
	if maxTypos == 0 {
		return nil
	}

	var results []Result
	for i, title := range idx.lowerTitles {
		dist := bestWordDistance(query, title)
		if dist > maxTypos {
			continue
		}
		results = append(results, Result{
			Planet: idx.planets[i],
			Index:  i,
			Score:  -dist,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// bestWordDistance is the smallest distance between query and the whole
// title or any of its words
func bestWordDistance(query, title string) int {
	best := fuzzy.LevenshteinDistance(query, title)
	for _, word := range strings.Fields(title) {
		best = min(best, fuzzy.LevenshteinDistance(query, word))
	}
	return best
}

// allowedTypos: 1-3 chars = 0, 4-6 chars = 1, 7+ chars = 2
func allowedTypos(length int) int {
	switch {
	case length <= 3:
		return 0
	case length <= 6:
		return 1
	default:
		return 2
	}
}
