package quiz

import (
	"errors"
	"testing"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

var (
	peru = geoquiz.Fields{
		Name:       "Peru",
		Capital:    "Lima",
		Population: 33715471,
		Languages:  []string{"Aymara", "Quechua", "Spanish"},
		Currencies: []geoquiz.Currency{{Code: "PEN", Name: "Peruvian sol", Symbol: "S/ "}},
	}
	antarctica = geoquiz.Fields{
		Name:       "Antarctica",
		Population: 1000,
	}
	iran = geoquiz.Fields{
		Name:       "Iran",
		Capital:    "Tehran",
		Population: 83992953,
		Languages:  []string{"Persian (Farsi)"},
		Currencies: []geoquiz.Currency{{Code: "IRR", Name: "Iranian rial", Symbol: "﷼"}},
	}
)

func first(int) int { return 0 }

func TestGrade(t *testing.T) {
	res := Grade(peru, Guesses{
		Capital:    " lima ",
		Population: "30,000,000",
		Language:   "klingon",
		Currency:   "sol",
	})

	if res.Country != "Peru" || res.Score != 3 || res.Total != 4 {
		t.Fatalf("Grade = %+v, want Peru 3/4", res)
	}

	want := []FieldResult{
		{FieldCapital, true, "lima", "Lima"},
		{FieldPopulation, true, "30,000,000", "33,715,471"},
		{FieldLanguage, false, "klingon", "Aymara, Quechua, Spanish"},
		{FieldCurrency, true, "sol", "PEN — Peruvian sol"},
	}
	if len(res.Results) != len(want) {
		t.Fatalf("got %d results, want %d", len(res.Results), len(want))
	}
	for i, w := range want {
		if res.Results[i] != w {
			t.Errorf("result %d = %+v, want %+v", i, res.Results[i], w)
		}
	}
}

func TestGradeSkipsAbsentFields(t *testing.T) {
	res := Grade(antarctica, Guesses{Capital: "McMurdo"})
	if res.Total != 1 || res.Score != 0 {
		t.Fatalf("Grade = %+v, want 0/1", res)
	}
	r := res.Results[0]
	if r.Field != FieldPopulation || r.YourAnswer != "—" {
		t.Errorf("result = %+v", r)
	}
}

func TestPickCountry(t *testing.T) {
	pool := []geoquiz.Fields{peru, antarctica, iran}

	got, reset, err := PickCountry(pool, []string{"Peru"}, false, first)
	if err != nil || reset || got.Name != "Antarctica" {
		t.Errorf("PickCountry = %q, %v, %v; want Antarctica", got.Name, reset, err)
	}

	got, _, err = PickCountry(pool, []string{"Peru"}, true, first)
	if err != nil || got.Name != "Iran" {
		t.Errorf("PickCountry complete-only = %q, %v; want Iran", got.Name, err)
	}

	got, reset, err = PickCountry(pool, []string{"Peru", "Iran"}, true, first)
	if err != nil || !reset || got.Name != "Peru" {
		t.Errorf("PickCountry exhausted = %q, %v, %v; want Peru with reset", got.Name, reset, err)
	}

	if _, _, err := PickCountry([]geoquiz.Fields{antarctica}, nil, true, first); !errors.Is(err, ErrNoCountries) {
		t.Errorf("PickCountry error = %v, want ErrNoCountries", err)
	}
}

func TestStateRoundLifecycle(t *testing.T) {
	pool := []geoquiz.Fields{peru, iran}
	var s State

	c, err := s.Begin(pool, first)
	if err != nil || c.Name != "Peru" {
		t.Fatalf("Begin = %q, %v", c.Name, err)
	}

	// A second Begin keeps the in-progress country.
	again, _ := s.Begin(pool, func(n int) int { return n - 1 })
	if again.Name != "Peru" {
		t.Errorf("Begin during round = %q, want Peru", again.Name)
	}
	if len(s.Seen) != 0 {
		t.Errorf("seen before submit = %v", s.Seen)
	}

	res, err := s.Submit(Guesses{Capital: "Lima"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Score != 1 || s.TotalScore != 1 || s.TotalPossible != 4 || s.Rounds != 1 {
		t.Errorf("after submit: res=%+v state=%+v", res, s)
	}
	if len(s.Seen) != 1 || s.Seen[0] != "Peru" {
		t.Errorf("seen = %v", s.Seen)
	}

	if _, err := s.Submit(Guesses{}); !errors.Is(err, ErrNotInRound) {
		t.Errorf("double submit error = %v, want ErrNotInRound", err)
	}

	next, _ := s.Begin(pool, first)
	if next.Name != "Iran" {
		t.Errorf("next round = %q, want Iran", next.Name)
	}
}

func TestStateSeenResetsWhenExhausted(t *testing.T) {
	s := State{Seen: []string{"Peru"}}
	c, err := s.Begin([]geoquiz.Fields{peru}, first)
	if err != nil || c.Name != "Peru" {
		t.Fatalf("Begin = %q, %v", c.Name, err)
	}
	if len(s.Seen) != 0 {
		t.Errorf("seen after reset = %v, want empty", s.Seen)
	}
}

func TestCompetition(t *testing.T) {
	pool := []geoquiz.Fields{peru, antarctica, iran}
	s := State{InRound: true, Current: &antarctica}

	s.StartCompetition()
	if s.InRound || s.Current != nil {
		t.Fatalf("StartCompetition kept the practice round: %+v", s)
	}
	if _, err := s.FinishCompetition(); !errors.Is(err, ErrCompetitionNotFinished) {
		t.Errorf("early finish error = %v", err)
	}

	for i := range CompetitionRounds {
		c, err := s.Begin(pool, first)
		if err != nil {
			t.Fatalf("round %d Begin: %v", i+1, err)
		}
		if !c.Complete() {
			t.Fatalf("round %d picked incomplete country %q", i+1, c.Name)
		}
		if _, err := s.Submit(Guesses{Capital: c.Capital}); err != nil {
			t.Fatalf("round %d Submit: %v", i+1, err)
		}
	}

	if !s.CompetitionFinished() {
		t.Fatalf("competition not finished after %d rounds: %+v", CompetitionRounds, s)
	}
	if _, err := s.Begin(pool, first); !errors.Is(err, ErrCompetitionFinished) {
		t.Errorf("Begin after finish error = %v", err)
	}

	score, err := s.FinishCompetition()
	if err != nil || score != CompetitionRounds {
		t.Errorf("FinishCompetition = %d, %v; want %d", score, err, CompetitionRounds)
	}
	if s.Competing() {
		t.Error("still competing after finish")
	}
	if _, err := s.FinishCompetition(); !errors.Is(err, ErrWrongMode) {
		t.Errorf("second finish error = %v, want ErrWrongMode", err)
	}
}
