package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/geoquiz/internal/quiz"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps each dependency to its status.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

type leaderboardQuery struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" description:"Number of entries, default 20."`
}

type devPasswordHeaderParam struct {
	Password string `header:"X-Dev-Password" description:"Required when a dev tools password is configured."`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "GeoQuiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the GeoQuiz country quiz and leaderboard.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the status of the leaderboard store, session store and country dataset.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/round
	getRound, _ := r.NewOperationContext(http.MethodGet, "/api/round")
	getRound.SetSummary("Current round")
	getRound.SetDescription("Begins a round or resumes the one in progress. Uses the geoquiz_session cookie.")
	getRound.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	getRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getRound)

	// POST /api/round/answer
	postAnswer, _ := r.NewOperationContext(http.MethodPost, "/api/round/answer")
	postAnswer.SetSummary("Submit answers")
	postAnswer.SetDescription("Grades the round in progress and updates the session totals.")
	postAnswer.AddReqStructure(quiz.Guesses{})
	postAnswer.AddRespStructure(AnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAnswer)

	// POST /api/reset
	postReset, _ := r.NewOperationContext(http.MethodPost, "/api/reset")
	postReset.SetSummary("Reset session")
	postReset.SetDescription("Clears the session's scores, seen countries and mode.")
	postReset.AddRespStructure(ProgressResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postReset)

	// POST /api/competition/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/competition/start")
	postStart.SetSummary("Start competition")
	postStart.SetDescription("Switches the session to a five-round competition using only countries with all four questions.")
	postStart.AddRespStructure(ProgressResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postStart)

	// POST /api/competition/submit
	postSubmit, _ := r.NewOperationContext(http.MethodPost, "/api/competition/submit")
	postSubmit.SetSummary("Submit competition score")
	postSubmit.SetDescription("Records the finished competition under a player name. The stored score only ever increases.")
	postSubmit.AddReqStructure(SubmitNameRequest{})
	postSubmit.AddRespStructure(SubmitNameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(postSubmit)

	// GET /api/leaderboard
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getBoard.SetSummary("Leaderboard")
	getBoard.SetDescription("Top scores, highest first; ties list the most recent first.")
	getBoard.AddReqStructure(leaderboardQuery{})
	getBoard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	getBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getBoard)

	// GET /api/leaderboard/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard/events")
	getEvents.SetSummary("Leaderboard event stream")
	getEvents.SetDescription("Server-Sent Events stream; one leaderboard_updated event per changed score.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws/leaderboard
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws/leaderboard")
	getWS.SetSummary("Leaderboard WebSocket")
	getWS.SetDescription("Upgrades to a WebSocket that pushes the same events as the SSE stream.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/dev/countries
	getDevCountries, _ := r.NewOperationContext(http.MethodGet, "/api/dev/countries")
	getDevCountries.SetSummary("Dev: country names")
	getDevCountries.SetDescription("Sorted list of country names. Only available when dev tools are enabled.")
	getDevCountries.AddReqStructure(devPasswordHeaderParam{})
	getDevCountries.AddRespStructure(DevCountriesResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getDevCountries.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	getDevCountries.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getDevCountries)

	// POST /api/dev/check
	postDevCheck, _ := r.NewOperationContext(http.MethodPost, "/api/dev/check")
	postDevCheck.SetSummary("Dev: grade guesses")
	postDevCheck.SetDescription("Grades guesses against a chosen country without a session. The first result is the total.")
	postDevCheck.AddReqStructure(DevCheckRequest{})
	postDevCheck.AddRespStructure(DevCheckResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postDevCheck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postDevCheck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postDevCheck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postDevCheck)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
