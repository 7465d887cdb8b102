package operations

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// MaxHints caps the suggestions reported per unresolved module.
const MaxHints = 3

// Suggest returns up to limit installed distribution names that fuzzily
// match module, best match first. Separators are ignored so that
// "sklearn" can match "scikit-learn".
func Suggest(module string, installed []string, limit int) []string {
	if module == "" || len(installed) == 0 || limit <= 0 {
		return nil
	}

	normalized := make([]string, len(installed))
	for i, name := range installed {
		normalized[i] = normalizeName(name)
	}

	matches := fuzzy.Find(normalizeName(module), normalized)
	var out []string
	for _, m := range matches {
		out = append(out, installed[m.Index])
		if len(out) == limit {
			break
		}
	}
	return out
}

func normalizeName(name string) string {
	return strings.NewReplacer("-", "", "_", "", ".", "").Replace(strings.ToLower(name))
}
