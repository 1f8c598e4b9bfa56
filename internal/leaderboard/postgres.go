package leaderboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

// PGStore implements Store over Postgres with a pgx pool.
type PGStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool, now: time.Now}
}

func (s *PGStore) RecordScore(ctx context.Context, name string, score int) (bool, error) {
	u, ok, err := prepare(name, score, s.now())
	if err != nil || !ok {
		return false, err
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO leaderboard (name, name_key, score, played_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name_key) DO UPDATE SET
			name = EXCLUDED.name,
			score = EXCLUDED.score,
			played_at = EXCLUDED.played_at
		WHERE EXCLUDED.score > leaderboard.score
	`, u.name, u.key, u.score, u.playedAt)
	if err != nil {
		return false, unavailable("recording score", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) TopEntries(ctx context.Context, limit int) ([]geoquiz.LeaderboardEntry, error) {
	if limit <= 0 {
		return []geoquiz.LeaderboardEntry{}, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT name, score, played_at
		FROM leaderboard
		ORDER BY score DESC, played_at DESC
		LIMIT $1
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

func (s *PGStore) Check(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
