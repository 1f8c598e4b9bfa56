package server

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/playperu/geoquiz/internal/countries"
	"github.com/playperu/geoquiz/internal/geoquiz"
	"github.com/playperu/geoquiz/internal/leaderboard"
	"github.com/playperu/geoquiz/internal/session"
)

// CountrySource provides the dataset. *countries.Source implements it.
type CountrySource interface {
	Countries(ctx context.Context) ([]countries.Country, error)
	Fields(ctx context.Context) ([]geoquiz.Fields, error)
}

// Deps are the collaborators the API handlers need.
type Deps struct {
	Countries   CountrySource
	Sessions    session.Store
	Leaderboard leaderboard.Store
	Broker      *leaderboard.Broker

	CookieSecure     bool
	SessionTTL       time.Duration
	LeaderboardLimit int

	DevToolsEnabled      bool
	DevToolsPasswordHash string

	// Intn returns a value in [0, n). Defaults to math/rand/v2.
	Intn func(n int) int
}

const maxLeaderboardLimit = 100

func (d Deps) withDefaults() Deps {
	if d.Intn == nil {
		d.Intn = rand.IntN
	}
	if d.SessionTTL <= 0 {
		d.SessionTTL = 24 * time.Hour
	}
	if d.LeaderboardLimit <= 0 {
		d.LeaderboardLimit = 20
	}
	if d.LeaderboardLimit > maxLeaderboardLimit {
		d.LeaderboardLimit = maxLeaderboardLimit
	}
	if d.Broker == nil {
		d.Broker = leaderboard.NewBroker()
	}
	return d
}
