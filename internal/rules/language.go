package rules

import (
	"regexp"

	"github.com/playperu/geoquiz/internal/textnorm"
)

// Splits compound labels such as "Persian (Farsi)" or "Malay / Bahasa Malaysia".
var labelSeparators = regexp.MustCompile(`(?i)[(),;/]| and | or | aka | a\.k\.a\. `)

// explodeLabel returns the normalized fragments of one official-language
// label plus the normalized label itself.
func explodeLabel(label string) set {
	out := set{}
	for _, part := range labelSeparators.Split(label, -1) {
		if n := textnorm.Text(part); n != "" {
			out[n] = struct{}{}
		}
	}
	if full := textnorm.Text(label); full != "" {
		out[full] = struct{}{}
	}
	return out
}

// AcceptedLanguages builds the set of normalized answers that count as
// naming one of labels: every label fragment, then one level of curated
// synonyms for each fragment.
func AcceptedLanguages(labels []string) map[string]struct{} {
	accepted := set{}
	for _, label := range labels {
		for tok := range explodeLabel(label) {
			accepted[tok] = struct{}{}
		}
	}

	expanded := make(set, len(accepted))
	for tok := range accepted {
		expanded[tok] = struct{}{}
		for syn := range tables.LanguageSynonyms[tok] {
			expanded[syn] = struct{}{}
		}
	}
	return expanded
}

// LanguageIsCorrect reports whether guess names any of the official language labels.
func LanguageIsCorrect(labels []string, guess string) bool {
	g := textnorm.Text(guess)
	if g == "" {
		return false
	}
	_, ok := AcceptedLanguages(labels)[g]
	return ok
}
