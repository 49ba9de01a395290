package classifier

import (
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/ahleite/plannito-bot/internal/category"
	"github.com/ahleite/plannito-bot/internal/model"
)

// similarityThreshold is the minimum normalized similarity for a title
// to count as a close match.
const similarityThreshold = 0.4

// Verdict is the outcome of validating a model-extracted category
// against the user's real category set.
type Verdict struct {
	ExactMatch  bool
	Suggestions []string // close titles, best first
}

// Similarity scores two strings in [0, 1] using Levenshtein distance
// over folded text. This lives here, not in the resolver: the resolver
// is deliberately similarity-free.
func Similarity(a, b string) float64 {
	fa, fb := category.Fold(a), category.Fold(b)
	longest := len([]rune(fa))
	if l := len([]rune(fb)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(fa, fb)
	return 1.0 - float64(distance)/float64(longest)
}

// ValidateCategory checks whether the input names a known category
// exactly (after folding) and, if not, collects close matches.
func ValidateCategory(input string, valid []model.Category) Verdict {
	folded := category.Fold(input)

	for _, c := range valid {
		if category.Fold(c.Title) == folded {
			return Verdict{ExactMatch: true}
		}
	}

	type scored struct {
		title string
		score float64
	}
	var matches []scored
	for _, c := range valid {
		if score := Similarity(input, c.Title); score >= similarityThreshold {
			matches = append(matches, scored{title: c.Title, score: score})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	verdict := Verdict{}
	for _, m := range matches {
		verdict.Suggestions = append(verdict.Suggestions, m.title)
	}
	return verdict
}
