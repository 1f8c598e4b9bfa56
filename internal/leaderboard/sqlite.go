package leaderboard

import (
	"context"
	"database/sql"
	"time"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

// SQLStore implements Store over SQLite (libSQL). The schema is created by
// the migrations package.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) RecordScore(ctx context.Context, name string, score int) (bool, error) {
	u, ok, err := prepare(name, score, s.now())
	if err != nil || !ok {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO leaderboard (name, name_key, score, played_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name_key) DO UPDATE SET
			name = excluded.name,
			score = excluded.score,
			played_at = excluded.played_at
		WHERE excluded.score > leaderboard.score
	`, u.name, u.key, u.score, u.playedAt)
	if err != nil {
		return false, unavailable("recording score", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, unavailable("recording score", err)
	}
	return n == 1, nil
}

func (s *SQLStore) TopEntries(ctx context.Context, limit int) ([]geoquiz.LeaderboardEntry, error) {
	if limit <= 0 {
		return []geoquiz.LeaderboardEntry{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, score, played_at
		FROM leaderboard
		ORDER BY score DESC, played_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, unavailable("listing entries", err)
	}
	defer rows.Close()

	entries := []geoquiz.LeaderboardEntry{}
	for rows.Next() {
		var e geoquiz.LeaderboardEntry
		var playedAt string
		if err := rows.Scan(&e.Name, &e.Score, &playedAt); err != nil {
			return nil, unavailable("scanning entry", err)
		}
		e.PlayedAt = parsePlayedAt(playedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("listing entries", err)
	}
	return entries, nil
}

// Check pings the database for the health endpoint.
func (s *SQLStore) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
