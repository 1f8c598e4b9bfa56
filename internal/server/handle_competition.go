package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/geoquiz/internal/leaderboard"
	"github.com/playperu/geoquiz/internal/quiz"
	"github.com/playperu/geoquiz/internal/rules"
	"github.com/playperu/geoquiz/internal/session"
)

type SubmitNameRequest struct {
	Name string `json:"name"`
}

type SubmitNameResponse struct {
	Changed bool   `json:"changed"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
}

func handleCompetitionStart(logger *slog.Logger, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := loadState(r, sessions)
		if err != nil {
			logger.Error("competition start: load session", "error", err)
			writeError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}

		st.StartCompetition()

		if err := saveState(r, sessions, st); err != nil {
			logger.Error("competition start: save session", "error", err)
			writeError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}
		writeJSON(w, http.StatusOK, ProgressResponse{Progress: progressOf(st)})
	}
}

// handleCompetitionSubmit records a finished competition. The session only
// leaves competition mode once the score is stored, so a player whose write
// failed can retry with the same score.
func handleCompetitionSubmit(logger *slog.Logger, sessions session.Store, board leaderboard.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitNameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		st, err := loadState(r, sessions)
		if err != nil {
			logger.Error("competition submit: load session", "error", err)
			writeError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}
		if !st.Competing() {
			writeError(w, http.StatusConflict, quiz.ErrWrongMode.Error())
			return
		}
		if !st.CompetitionFinished() {
			writeError(w, http.StatusConflict, quiz.ErrCompetitionNotFinished.Error())
			return
		}

		name, err := rules.ValidatePlayerName(req.Name)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		score := st.CompetitionScore
		changed, err := board.RecordScore(r.Context(), name, score)
		if err != nil {
			logger.Error("competition submit: record score", "name", name, "score", score, "error", err)
			if errors.Is(err, leaderboard.ErrUnavailable) {
				writeError(w, http.StatusServiceUnavailable, "leaderboard unavailable, try again")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if _, err := st.FinishCompetition(); err != nil {
			logger.Error("competition submit: finish", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err := saveState(r, sessions, st); err != nil {
			logger.Error("competition submit: save session", "error", err)
			writeError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}

		writeJSON(w, http.StatusOK, SubmitNameResponse{Changed: changed, Name: name, Score: score})
	}
}
