package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/playperu/geoquiz/internal/countries"
	"github.com/playperu/geoquiz/internal/geoquiz"
	"github.com/playperu/geoquiz/internal/quiz"
	"github.com/playperu/geoquiz/internal/rules"
	"github.com/playperu/geoquiz/internal/textnorm"
)

type DevCountriesResponse struct {
	Countries []string `json:"countries"`
}

type DevCheckRequest struct {
	Country string `json:"country"`
	quiz.Guesses
}

type DevCheckResponse struct {
	Fields  geoquiz.Fields     `json:"fields"`
	Results []quiz.FieldResult `json:"results"`
}

func handleDevCountries(logger *slog.Logger, src CountrySource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := src.Countries(r.Context())
		if err != nil {
			logger.Warn("dev countries: country data", "error", err)
			writeError(w, http.StatusServiceUnavailable, "country data unavailable")
			return
		}
		writeJSON(w, http.StatusOK, DevCountriesResponse{Countries: countries.Names(list)})
	}
}

// handleDevCheck grades guesses against a chosen country without touching
// any session. The first result is the overall total.
func handleDevCheck(logger *slog.Logger, src CountrySource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DevCheckRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Country) == "" {
			writeError(w, http.StatusBadRequest, "country is required")
			return
		}

		list, err := src.Countries(r.Context())
		if err != nil {
			logger.Warn("dev check: country data", "error", err)
			writeError(w, http.StatusServiceUnavailable, "country data unavailable")
			return
		}
		c, ok := countries.Find(list, req.Country)
		if !ok {
			writeError(w, http.StatusNotFound, "country not found")
			return
		}

		fields := countries.FieldsFrom(c)
		res := quiz.Grade(fields, req.Guesses)

		// Show a parsed population guess the way the answer is shown.
		for i := range res.Results {
			if res.Results[i].Field != quiz.FieldPopulation {
				continue
			}
			if n, ok := textnorm.ParseStrictInt(req.Population); ok {
				res.Results[i].YourAnswer = rules.FormatPopulation(n)
			}
		}

		total := quiz.FieldResult{
			Field:         "Total",
			OK:            res.Score == res.Total,
			YourAnswer:    fmt.Sprintf("%d/%d", res.Score, res.Total),
			CorrectAnswer: "—",
		}
		writeJSON(w, http.StatusOK, DevCheckResponse{
			Fields:  fields,
			Results: append([]quiz.FieldResult{total}, res.Results...),
		})
	}
}
