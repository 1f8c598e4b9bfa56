package quiz

import (
	"errors"
	"slices"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

// CompetitionRounds is the fixed length of a competition.
const CompetitionRounds = 5

var (
	ErrNoCountries            = errors.New("no eligible countries")
	ErrNotInRound             = errors.New("no round in progress")
	ErrCompetitionFinished    = errors.New("competition finished, submit your name")
	ErrCompetitionNotFinished = errors.New("competition not finished")
	ErrWrongMode              = errors.New("not in competition mode")
)

type Mode string

const (
	ModePractice    Mode = "practice"
	ModeCompetition Mode = "competition"
)

// State is one player's session. It is owned by the caller and persisted
// between requests; nothing here reads ambient state.
type State struct {
	Current       *geoquiz.Fields `json:"current,omitempty"`
	InRound       bool            `json:"inRound"`
	Seen          []string        `json:"seen"`
	TotalScore    int             `json:"totalScore"`
	TotalPossible int             `json:"totalPossible"`
	Rounds        int             `json:"rounds"`

	Mode             Mode `json:"mode"`
	CompetitionRound int  `json:"competitionRound"`
	CompetitionScore int  `json:"competitionScore"`
}

// Competing reports whether the session is in competition mode.
func (s *State) Competing() bool { return s.Mode == ModeCompetition }

// CompetitionFinished reports whether all competition rounds are submitted.
func (s *State) CompetitionFinished() bool {
	return s.Competing() && s.CompetitionRound >= CompetitionRounds
}

// PickCountry chooses uniformly among eligible countries whose names are not
// in seen, using intn(n) for a value in [0, n). When every eligible country
// has been seen it returns reset=true and picks from all of them.
func PickCountry(pool []geoquiz.Fields, seen []string, requireComplete bool, intn func(int) int) (geoquiz.Fields, bool, error) {
	var eligible, unseen []geoquiz.Fields
	for _, c := range pool {
		if c.Name == "" || (requireComplete && !c.Complete()) {
			continue
		}
		eligible = append(eligible, c)
		if !slices.Contains(seen, c.Name) {
			unseen = append(unseen, c)
		}
	}
	if len(eligible) == 0 {
		return geoquiz.Fields{}, false, ErrNoCountries
	}
	if len(unseen) == 0 {
		return eligible[intn(len(eligible))], true, nil
	}
	return unseen[intn(len(unseen))], false, nil
}

// Begin returns the round's country, picking a new one unless a round is
// already in progress. Reloading the page therefore keeps the same question.
func (s *State) Begin(pool []geoquiz.Fields, intn func(int) int) (geoquiz.Fields, error) {
	if s.InRound && s.Current != nil {
		return *s.Current, nil
	}
	if s.CompetitionFinished() {
		return geoquiz.Fields{}, ErrCompetitionFinished
	}

	picked, reset, err := PickCountry(pool, s.Seen, s.Competing(), intn)
	if err != nil {
		return geoquiz.Fields{}, err
	}
	if reset {
		s.Seen = nil
	}
	s.Current = &picked
	s.InRound = true
	return picked, nil
}

// Submit grades the in-progress round and folds it into the session totals.
// The country counts as seen only once it is submitted.
func (s *State) Submit(g Guesses) (RoundResult, error) {
	if !s.InRound || s.Current == nil {
		return RoundResult{}, ErrNotInRound
	}

	res := Grade(*s.Current, g)
	s.TotalScore += res.Score
	s.TotalPossible += res.Total
	s.Rounds++
	if name := s.Current.Name; name != "" && !slices.Contains(s.Seen, name) {
		s.Seen = append(s.Seen, name)
	}
	s.InRound = false

	if s.Competing() {
		s.CompetitionRound++
		s.CompetitionScore += res.Score
	}
	return res, nil
}

// StartCompetition discards any in-progress round and begins a fresh
// competition. Seen countries are kept so the competition avoids repeats.
func (s *State) StartCompetition() {
	s.Mode = ModeCompetition
	s.CompetitionRound = 0
	s.CompetitionScore = 0
	s.Current = nil
	s.InRound = false
}

// FinishCompetition returns the final score and drops back to practice mode.
func (s *State) FinishCompetition() (int, error) {
	if !s.Competing() {
		return 0, ErrWrongMode
	}
	if !s.CompetitionFinished() {
		return 0, ErrCompetitionNotFinished
	}
	score := s.CompetitionScore
	s.Mode = ModePractice
	s.CompetitionRound = 0
	s.CompetitionScore = 0
	return score, nil
}
