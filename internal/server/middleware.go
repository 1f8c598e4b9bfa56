package server

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/geoquiz/internal/quiz"
	"github.com/playperu/geoquiz/internal/session"
)

type ctxKey int

const ctxKeySession ctxKey = iota

const (
	sessionCookieName = "geoquiz_session"
	devPasswordHeader = "X-Dev-Password"
)

// sessionMiddleware makes sure every player request carries a session ID,
// issuing a fresh cookie when the client has none or sends a malformed one.
func sessionMiddleware(secure bool, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(sessionCookieName); err == nil && validSessionID(c.Value) {
				id = c.Value
			}
			if id == "" {
				id = session.NewID()
			}

			// Refreshed on every request so the cookie slides with the store TTL.
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl / time.Second),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := context.WithValue(r.Context(), ctxKeySession, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validSessionID(s string) bool {
	if len(s) != 32 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func sessionID(r *http.Request) string {
	return r.Context().Value(ctxKeySession).(string)
}

// loadState returns the session's state, or a fresh one for a new session.
func loadState(r *http.Request, store session.Store) (quiz.State, error) {
	st, err := store.Load(r.Context(), sessionID(r))
	if errors.Is(err, session.ErrNotFound) {
		return quiz.State{Mode: quiz.ModePractice}, nil
	}
	if err != nil {
		return quiz.State{}, fmt.Errorf("loading session: %w", err)
	}
	return st, nil
}

func saveState(r *http.Request, store session.Store, st quiz.State) error {
	if err := store.Save(r.Context(), sessionID(r), st); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// devToolsMiddleware hides the dev routes unless they are enabled. With a
// password hash configured, requests must also send the matching password.
func devToolsMiddleware(enabled bool, passwordHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				writeError(w, http.StatusNotFound, "dev tools disabled")
				return
			}
			if passwordHash != "" {
				pw := r.Header.Get(devPasswordHeader)
				if pw == "" || bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pw)) != nil {
					writeError(w, http.StatusUnauthorized, "invalid dev tools password")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
