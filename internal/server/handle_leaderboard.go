package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/playperu/geoquiz/internal/leaderboard"
)

type LeaderboardItem struct {
	Rank     int       `json:"rank"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	PlayedAt time.Time `json:"playedAt"`
	// PlayedOn is the display date, e.g. "23 Feb 2026".
	PlayedOn string `json:"playedOn"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardItem `json:"entries"`
}

func handleLeaderboard(logger *slog.Logger, board leaderboard.Store, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(n, maxLeaderboardLimit)
		}

		entries, err := board.TopEntries(r.Context(), limit)
		if err != nil {
			logger.Error("leaderboard: list", "error", err)
			if errors.Is(err, leaderboard.ErrUnavailable) {
				writeError(w, http.StatusServiceUnavailable, "leaderboard unavailable")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		items := make([]LeaderboardItem, len(entries))
		for i, e := range entries {
			items[i] = LeaderboardItem{
				Rank:     i + 1,
				Name:     e.Name,
				Score:    e.Score,
				PlayedAt: e.PlayedAt,
				PlayedOn: leaderboard.FormatPlayedAt(e.PlayedAt),
			}
		}
		writeJSON(w, http.StatusOK, LeaderboardResponse{Entries: items})
	}
}
