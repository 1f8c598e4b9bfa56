// Package quiz grades rounds and tracks a player's session progress. It sits
// between the HTTP layer and the pure answer rules: the caller passes the
// round's fields and raw guesses in, and gets verdicts and state changes out.
package quiz

import (
	"strings"

	"github.com/playperu/geoquiz/internal/geoquiz"
	"github.com/playperu/geoquiz/internal/rules"
)

// Placeholder shown for an empty answer.
const emptyAnswer = "—"

type Field string

const (
	FieldCapital    Field = "Capital"
	FieldPopulation Field = "Population"
	FieldLanguage   Field = "Language"
	FieldCurrency   Field = "Currency"
)

// Guesses are the raw player inputs for one round.
type Guesses struct {
	Capital    string `json:"capital"`
	Population string `json:"population"`
	Language   string `json:"language"`
	Currency   string `json:"currency"`
}

type FieldResult struct {
	Field         Field  `json:"field"`
	OK            bool   `json:"ok"`
	YourAnswer    string `json:"yourAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
}

type RoundResult struct {
	Country string        `json:"country"`
	Score   int           `json:"score"`
	Total   int           `json:"total"`
	Results []FieldResult `json:"results"`
}

func orPlaceholder(s string) string {
	if s == "" {
		return emptyAnswer
	}
	return s
}

// Grade scores every question the fields support. Absent fields (no capital,
// unknown population, no languages, no currencies) are skipped, not failed.
func Grade(f geoquiz.Fields, g Guesses) RoundResult {
	res := RoundResult{Country: f.Name}

	add := func(field Field, ok bool, guess, correct string) {
		res.Total++
		if ok {
			res.Score++
		}
		res.Results = append(res.Results, FieldResult{
			Field:         field,
			OK:            ok,
			YourAnswer:    orPlaceholder(strings.TrimSpace(guess)),
			CorrectAnswer: orPlaceholder(correct),
		})
	}

	if f.Capital != "" {
		add(FieldCapital, rules.CapitalIsCorrect(f.Capital, g.Capital), g.Capital, f.Capital)
	}
	if f.Population > 0 {
		add(FieldPopulation, rules.PopulationIsCorrect(f.Population, g.Population),
			g.Population, rules.FormatPopulation(f.Population))
	}
	if len(f.Languages) > 0 {
		add(FieldLanguage, rules.LanguageIsCorrect(f.Languages, g.Language),
			g.Language, strings.Join(f.Languages, ", "))
	}
	if len(f.Currencies) > 0 {
		add(FieldCurrency, rules.CurrencyIsCorrect(f.Currencies, g.Currency),
			g.Currency, rules.FormatCurrencyAnswer(f.Currencies))
	}
	return res
}
