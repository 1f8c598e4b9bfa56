// Package geoquiz defines the core domain types shared by the quiz rules,
// the country dataset, the leaderboard and the HTTP layer.
// It has zero external dependencies.
package geoquiz

import "time"

// Currency is one entry of a country's currency list. Code and Name may be
// empty; Symbol is empty when the upstream data has none.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// Fields is the typed question record for one quiz round. It is derived
// once from upstream data and not modified for the lifetime of the round.
// An empty Capital and a zero Population mean the field is absent.
type Fields struct {
	Name       string     `json:"name"`
	Flag       string     `json:"flag,omitempty"`
	Capital    string     `json:"capital,omitempty"`
	Population int64      `json:"population,omitempty"`
	Languages  []string   `json:"languages"`
	Currencies []Currency `json:"currencies"`
}

// Complete reports whether all four questions can be asked. Competition
// rounds only use complete countries.
func (f Fields) Complete() bool {
	return f.Capital != "" &&
		f.Population > 0 &&
		len(f.Languages) > 0 &&
		len(f.Currencies) > 0
}

// LeaderboardEntry is the best recorded score for one player.
type LeaderboardEntry struct {
	Name     string
	Score    int
	PlayedAt time.Time
}
