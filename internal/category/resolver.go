package category

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ahleite/plannito-bot/internal/model"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips diacritics so "Alimentação" and
// "alimentacao" compare equal.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Resolver maps free-text category guesses to a known category.
type Resolver struct {
	keywords map[string]string
}

func NewResolver(keywords map[string]string) *Resolver {
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	return &Resolver{keywords: keywords}
}

// Resolve finds the category a guess refers to, in strict priority
// order: exact title match, substring match (either direction), then
// the keyword table. It returns nil when nothing matches; similarity
// scoring is deliberately not applied here.
func (r *Resolver) Resolve(guess string, valid []model.Category) *model.Category {
	input := Fold(guess)
	if input == "" || len(valid) == 0 {
		return nil
	}

	for i := range valid {
		if Fold(valid[i].Title) == input {
			return &valid[i]
		}
	}

	for i := range valid {
		title := Fold(valid[i].Title)
		if strings.Contains(title, input) || strings.Contains(input, title) {
			return &valid[i]
		}
	}

	for _, keyword := range sortedKeys(r.keywords) {
		if !strings.Contains(input, Fold(keyword)) {
			continue
		}
		mapped := r.keywords[keyword]
		for i := range valid {
			if valid[i].Title == mapped {
				return &valid[i]
			}
		}
		return nil
	}

	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
