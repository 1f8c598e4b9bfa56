// Package countries fetches the RestCountries dataset and maps it to quiz
// question records.
package countries

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

// DefaultURL is the RestCountries endpoint with only the fields the quiz uses.
const DefaultURL = "https://restcountries.com/v3.1/all?fields=name,capital,population,languages,currencies,flag"

// Country is one upstream record as RestCountries returns it. It is also the
// on-disk format of the fallback file.
type Country struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Flag       string                  `json:"flag,omitempty"`
	Capital    []string                `json:"capital,omitempty"`
	Population json.Number             `json:"population,omitempty"`
	Languages  Ordered[string]         `json:"languages,omitempty"`
	Currencies Ordered[CurrencyInfo]   `json:"currencies,omitempty"`
}

type CurrencyInfo struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// Complete reports whether the record yields all four questions.
func (c Country) Complete() bool {
	return FieldsFrom(c).Complete()
}

// FieldsFrom maps an upstream record to the typed question record.
// Population is kept only when it is a positive integer; languages and
// currencies keep the upstream order.
func FieldsFrom(c Country) geoquiz.Fields {
	f := geoquiz.Fields{
		Name:       strings.TrimSpace(c.Name.Common),
		Flag:       c.Flag,
		Languages:  []string{},
		Currencies: []geoquiz.Currency{},
	}

	for _, capital := range c.Capital {
		if capital = strings.TrimSpace(capital); capital != "" {
			f.Capital = capital
			break
		}
	}

	if n, err := c.Population.Int64(); err == nil && n > 0 {
		f.Population = n
	}

	for _, lang := range c.Languages {
		if label := strings.TrimSpace(lang.Value); label != "" {
			f.Languages = append(f.Languages, label)
		}
	}

	for _, cur := range c.Currencies {
		f.Currencies = append(f.Currencies, geoquiz.Currency{
			Code:   strings.TrimSpace(cur.Key),
			Name:   strings.TrimSpace(cur.Value.Name),
			Symbol: strings.TrimSpace(cur.Value.Symbol),
		})
	}

	return f
}

// AllFields maps every record with a name. Records without one cannot be
// asked about and are skipped.
func AllFields(list []Country) []geoquiz.Fields {
	out := make([]geoquiz.Fields, 0, len(list))
	for _, c := range list {
		f := FieldsFrom(c)
		if f.Name == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Names returns the sorted list of country names.
func Names(list []Country) []string {
	names := make([]string, 0, len(list))
	for _, c := range list {
		if name := strings.TrimSpace(c.Name.Common); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Find returns the record whose common name matches name, ignoring case.
func Find(list []Country, name string) (Country, bool) {
	name = strings.TrimSpace(name)
	for _, c := range list {
		if strings.EqualFold(strings.TrimSpace(c.Name.Common), name) {
			return c, true
		}
	}
	return Country{}, false
}
