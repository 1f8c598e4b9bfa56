// Package livefeed streams leaderboard events to WebSocket clients.
package livefeed

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
)

// Feed is the event source. leaderboard.Broker implements it.
type Feed interface {
	Subscribe() chan []byte
	Unsubscribe(ch chan []byte)
}

type Handler struct {
	feed         Feed
	logger       *slog.Logger
	pingInterval time.Duration
	writeTimeout time.Duration
}

func NewHandler(logger *slog.Logger, feed Feed) *Handler {
	return &Handler{
		feed:         feed,
		logger:       logger,
		pingInterval: 30 * time.Second,
		writeTimeout: 5 * time.Second,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/leaderboard", h.leaderboard)
	return r
}

// leaderboard pushes each event as a text frame. Clients only listen;
// anything they send closes the connection.
func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ch := h.feed.Subscribe()
	defer h.feed.Unsubscribe(ch)

	ctx := conn.CloseRead(r.Context())

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("websocket closed", "error", ctx.Err())
			return
		case data := <-ch:
			if err := h.write(ctx, conn, data); err != nil {
				h.logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, h.writeTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				h.logger.Debug("websocket ping failed", "error", err)
				return
			}
		}
	}
}

func (h *Handler) write(ctx context.Context, conn *websocket.Conn, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, h.writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
