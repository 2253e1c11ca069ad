package matcher

import (
	"strings"

	"golang.org/x/text/cases"
)

// foldToken trims and case-folds a free-text token so comparisons ignore case in any script
func foldToken(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// normalizeTokens folds tokens, dropping blanks and duplicates while keeping first-seen order
func normalizeTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		folded := foldToken(tok)
		if folded == "" || seen[folded] {
			continue
		}
		seen[folded] = true
		out = append(out, folded)
	}
	return out
}
