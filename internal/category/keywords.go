package category

import (
	"os"

	yaml "gopkg.in/yaml.v2"
)

// DefaultKeywords maps domain terms the classifier tends to emit as a
// "category" (brand names, fuel vocabulary) to the backend category
// title they belong to. The table is written in Portuguese because the
// category set is; Fold makes lookups tolerant of diacritic variants.
func DefaultKeywords() map[string]string {
	return map[string]string{
		"uber":          "Transporte",
		"taxi":          "Transporte",
		"99":            "Transporte",
		"gasolina":      "Transporte",
		"posto":         "Transporte",
		"combustível":   "Transporte",
		"abastecimento": "Transporte",
		"ifood":         "Alimentação",
	}
}

// LoadKeywords reads a keyword -> category-title table from a YAML
// file. It merges over the defaults, so a file only needs to list
// additions or overrides.
func LoadKeywords(path string) (map[string]string, error) {
	table := DefaultKeywords()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]string)
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, err
	}
	for keyword, title := range overrides {
		table[keyword] = title
	}
	return table, nil
}
