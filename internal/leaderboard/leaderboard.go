// Package leaderboard stores the best competition score per player.
//
// A player is identified by name_key, the case-folded, whitespace-collapsed
// form of the name. Each key has at most one row, and its score only ever
// goes up: RecordScore is a single conditional upsert so concurrent
// submissions for the same player converge on the highest score.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/cases"

	"github.com/playperu/geoquiz/internal/geoquiz"
	"github.com/playperu/geoquiz/internal/rules"
)

// ErrUnavailable wraps every backend failure. Callers must surface it: a
// dropped write would silently break the only-if-higher guarantee.
var ErrUnavailable = errors.New("leaderboard unavailable")

var ErrInvalidScore = errors.New("score must be non-negative")

type Store interface {
	// RecordScore inserts or raises the player's best score and reports
	// whether a row changed. Ties and lower scores change nothing.
	RecordScore(ctx context.Context, name string, score int) (bool, error)
	// TopEntries returns up to limit entries by score, then most recent first.
	TopEntries(ctx context.Context, limit int) ([]geoquiz.LeaderboardEntry, error)
}

// Same layout for every backend so rows sort by time as text.
const playedAtLayout = "2006-01-02T15:04:05.000000Z"

// NameKey returns the uniqueness key for a player name.
func NameKey(name string) string {
	return cases.Fold().String(rules.NormalizePlayerName(name))
}

type upsert struct {
	name     string
	key      string
	score    int
	playedAt string
}

func prepare(name string, score int, now time.Time) (upsert, bool, error) {
	if score < 0 {
		return upsert{}, false, ErrInvalidScore
	}
	clean := rules.NormalizePlayerName(name)
	if clean == "" {
		return upsert{}, false, nil
	}
	return upsert{
		name:     clean,
		key:      NameKey(clean),
		score:    score,
		playedAt: now.UTC().Format(playedAtLayout),
	}, true, nil
}

func parsePlayedAt(s string) time.Time {
	t, err := time.Parse(playedAtLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}

// FormatPlayedAt renders a timestamp for display, e.g. "23 Feb 2026".
func FormatPlayedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("02 Jan 2006")
}
