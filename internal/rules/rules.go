// Package rules decides whether a free-text guess answers a quiz question.
//
// Every function here is pure: it takes the round's typed fields and the raw
// guess and never fails. Malformed or empty guesses are simply incorrect.
// The curated tables (synonyms, aliases, profanity) live in data/*.yaml.
package rules

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/playperu/geoquiz/internal/textnorm"
)

// PopulationTolerance is the accepted relative error of a population guess.
const PopulationTolerance = 0.20

// CapitalIsCorrect compares the normalized guess with the normalized capital.
func CapitalIsCorrect(capital, guess string) bool {
	g := textnorm.Text(guess)
	return g != "" && g == textnorm.Text(capital)
}

// PopulationIsCorrect reports whether guess is within PopulationTolerance of
// truth, boundary inclusive. Guesses that ParseStrictInt rejects are wrong.
func PopulationIsCorrect(truth int64, guess string) bool {
	if truth <= 0 {
		return false
	}
	n, ok := textnorm.ParseStrictInt(guess)
	if !ok {
		return false
	}
	return math.Abs(float64(n-truth))/float64(truth) <= PopulationTolerance
}

var thousands = message.NewPrinter(language.English)

// FormatPopulation renders n with grouped thousands, e.g. 1234567 -> "1,234,567".
func FormatPopulation(n int64) string {
	return thousands.Sprintf("%d", n)
}
