package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("GeoQuiz API", "/openapi.json", "/docs"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/leaderboard", handleLeaderboard(logger, deps.Leaderboard, deps.LeaderboardLimit))
		r.Get("/leaderboard/events", handleEvents(deps.Broker))

		// Player routes share a cookie session.
		r.Group(func(r chi.Router) {
			r.Use(sessionMiddleware(deps.CookieSecure, deps.SessionTTL))
			r.Get("/round", handleRound(logger, deps))
			r.Post("/round/answer", handleAnswer(logger, deps.Sessions))
			r.Post("/reset", handleReset(logger, deps.Sessions))
			r.Post("/competition/start", handleCompetitionStart(logger, deps.Sessions))
			r.Post("/competition/submit", handleCompetitionSubmit(logger, deps.Sessions, deps.Leaderboard))
		})

		r.Route("/dev", func(r chi.Router) {
			r.Use(devToolsMiddleware(deps.DevToolsEnabled, deps.DevToolsPasswordHash))
			r.Get("/countries", handleDevCountries(logger, deps.Countries))
			r.Post("/check", handleDevCheck(logger, deps.Countries))
		})
	})
}
