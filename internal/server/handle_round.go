package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/geoquiz/internal/geoquiz"
	"github.com/playperu/geoquiz/internal/quiz"
	"github.com/playperu/geoquiz/internal/session"
)

// Asks says which questions the round includes.
type Asks struct {
	Capital    bool `json:"capital"`
	Population bool `json:"population"`
	Language   bool `json:"language"`
	Currency   bool `json:"currency"`
}

type RoundCountry struct {
	Name string `json:"name"`
	Flag string `json:"flag,omitempty"`
	Asks Asks   `json:"asks"`
}

type Progress struct {
	TotalScore    int `json:"totalScore"`
	TotalPossible int `json:"totalPossible"`
	Rounds        int `json:"rounds"`
	CountriesSeen int `json:"countriesSeen"`

	Mode                quiz.Mode `json:"mode"`
	CompetitionRound    int       `json:"competitionRound"`
	CompetitionRounds   int       `json:"competitionRounds"`
	CompetitionScore    int       `json:"competitionScore"`
	CompetitionFinished bool      `json:"competitionFinished"`
}

type RoundResponse struct {
	Country  RoundCountry `json:"country"`
	Progress Progress     `json:"progress"`
}

type AnswerResponse struct {
	Result   quiz.RoundResult `json:"result"`
	Progress Progress         `json:"progress"`
}

type ProgressResponse struct {
	Progress Progress `json:"progress"`
}

func progressOf(st quiz.State) Progress {
	mode := st.Mode
	if mode == "" {
		mode = quiz.ModePractice
	}
	p := Progress{
		TotalScore:    st.TotalScore,
		TotalPossible: st.TotalPossible,
		Rounds:        st.Rounds,
		CountriesSeen: len(st.Seen),
		Mode:          mode,
	}
	if st.Competing() {
		p.CompetitionRound = st.CompetitionRound
		p.CompetitionRounds = quiz.CompetitionRounds
		p.CompetitionScore = st.CompetitionScore
		p.CompetitionFinished = st.CompetitionFinished()
	}
	return p
}

func roundCountry(f geoquiz.Fields) RoundCountry {
	return RoundCountry{
		Name: f.Name,
		Flag: f.Flag,
		Asks: Asks{
			Capital:    f.Capital != "",
			Population: f.Population > 0,
			Language:   len(f.Languages) > 0,
			Currency:   len(f.Currencies) > 0,
		},
	}
}

func handleRound(logger *slog.Logger, deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := loadState(r, deps.Sessions)
		if err != nil {
			logger.Error("round: load session", "error", err)
			writeError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}

		var pool []geoquiz.Fields
		if !st.InRound {
			pool, err = deps.Countries.Fields(r.Context())
			if err != nil {
				logger.Warn("round: country data", "error", err)
				writeError(w, http.StatusServiceUnavailable, "country data unavailable")
				return
			}
		}

		country, err := st.Begin(pool, deps.Intn)
		switch {
		case errors.Is(err, quiz.ErrCompetitionFinished):
			writeError(w, http.StatusConflict, err.Error())
			return
		case errors.Is(err, quiz.ErrNoCountries):
			writeError(w, http.StatusServiceUnavailable, "no countries available")
			return
		case err != nil:
			logger.Error("round: begin", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := saveState(r, deps.Sessions, st); err != nil {
			logger.Error("round: save session", "error", err)
			writeError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}

		writeJSON(w, http.StatusOK, RoundResponse{
			Country:  roundCountry(country),
			Progress: progressOf(st),
		})
	}
}

func handleAnswer(logger *slog.Logger, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quiz.Guesses
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		st, err := loadState(r, sessions)
		if err != nil {
			logger.Error("answer: load session", "error", err)
			writeError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}

		res, err := st.Submit(req)
		if errors.Is(err, quiz.ErrNotInRound) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		if err != nil {
			logger.Error("answer: submit", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := saveState(r, sessions, st); err != nil {
			logger.Error("answer: save session", "error", err)
			writeError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}

		writeJSON(w, http.StatusOK, AnswerResponse{Result: res, Progress: progressOf(st)})
	}
}

func handleReset(logger *slog.Logger, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Delete(r.Context(), sessionID(r)); err != nil {
			logger.Error("reset: delete session", "error", err)
			writeError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}
		writeJSON(w, http.StatusOK, ProgressResponse{Progress: progressOf(quiz.State{})})
	}
}
