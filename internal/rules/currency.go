package rules

import (
	"strings"

	"github.com/playperu/geoquiz/internal/geoquiz"
	"github.com/playperu/geoquiz/internal/textnorm"
)

// AliasSet holds the accepted answers for one currency. Entries containing a
// currency symbol character are raw symbols; all others are normalized text
// or the uppercased ISO code.
type AliasSet map[string]struct{}

func isSymbol(alias string) bool {
	return strings.ContainsAny(alias, tables.SymbolChars)
}

// Matches compares guess against the set. Symbols are compared to the raw
// trimmed guess and only count when singleCurrency is true; everything else
// is compared to the normalized guess.
func (a AliasSet) Matches(guess string, singleCurrency bool) bool {
	raw := strings.TrimSpace(guess)
	name := textnorm.Text(raw)
	for alias := range a {
		if isSymbol(alias) {
			if singleCurrency && raw == alias {
				return true
			}
			continue
		}
		if name != "" && name == alias {
			return true
		}
	}
	return false
}

// coreAliases derives the head-noun aliases from an official name. The last
// word is accepted on its own ("azerbaijani manat" -> "manat") unless it is a
// bare-default word like "dollar": then the bare word only counts for the
// default code and the 2-4 word suffixes ("australian dollar") count for all.
func coreAliases(code, officialName string) []string {
	toks := strings.Fields(textnorm.Text(officialName))
	if len(toks) == 0 {
		return nil
	}
	last := toks[len(toks)-1]

	def, requiresDescriptor := tables.BareWordDefaults[last]
	if !requiresDescriptor {
		return []string{last}
	}

	var out []string
	if code == def {
		out = append(out, last)
	}
	for n := 2; n <= 4 && n <= len(toks); n++ {
		out = append(out, strings.Join(toks[len(toks)-n:], " "))
	}
	return out
}

// CurrencyAliases builds the accepted answers for c. The symbol is included
// only for single-currency countries, since symbols like "$" are shared.
func CurrencyAliases(c geoquiz.Currency, singleCurrency bool) AliasSet {
	code := strings.ToUpper(strings.TrimSpace(c.Code))
	out := AliasSet{}

	if code != "" {
		out[code] = struct{}{}
	}
	if n := textnorm.Text(c.Name); n != "" {
		out[n] = struct{}{}
	}
	for alias := range tables.CurrencyAliases[code] {
		out[alias] = struct{}{}
	}
	for _, alias := range coreAliases(code, c.Name) {
		out[alias] = struct{}{}
	}
	if singleCurrency {
		if sym := strings.TrimSpace(c.Symbol); sym != "" {
			out[sym] = struct{}{}
		}
	}
	return out
}

// CurrencyIsCorrect reports whether guess names any of currencies. An ISO
// code match wins first; a bare default word ("dollar") is then decided by
// its default code alone; otherwise the per-currency alias sets are checked.
func CurrencyIsCorrect(currencies []geoquiz.Currency, guess string) bool {
	raw := strings.TrimSpace(guess)
	if raw == "" || len(currencies) == 0 {
		return false
	}

	present := make(map[string]bool, len(currencies))
	for _, c := range currencies {
		if code := strings.ToUpper(strings.TrimSpace(c.Code)); code != "" {
			present[code] = true
		}
	}

	if code := textnorm.Code(raw); code != "" && present[code] {
		return true
	}

	if def, ok := tables.BareWordDefaults[textnorm.Text(raw)]; ok {
		return present[def]
	}

	single := len(currencies) == 1
	for _, c := range currencies {
		if CurrencyAliases(c, single).Matches(raw, single) {
			return true
		}
	}
	return false
}

// FormatCurrencyAnswer renders the canonical answer, e.g.
// "USD — United States dollar; EUR — Euro".
func FormatCurrencyAnswer(currencies []geoquiz.Currency) string {
	parts := make([]string, 0, len(currencies))
	for _, c := range currencies {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		switch {
		case code != "" && c.Name != "":
			parts = append(parts, code+" — "+c.Name)
		case c.Name != "":
			parts = append(parts, c.Name)
		case code != "":
			parts = append(parts, code)
		}
	}
	return strings.Join(parts, "; ")
}
