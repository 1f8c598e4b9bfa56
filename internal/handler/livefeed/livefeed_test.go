package livefeed_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"github.com/playperu/geoquiz/internal/handler/livefeed"
	"github.com/playperu/geoquiz/internal/leaderboard"
)

func TestLeaderboardFeed(t *testing.T) {
	broker := leaderboard.NewBroker()

	r := chi.NewRouter()
	r.Mount("/ws", livefeed.NewHandler(slog.Default(), broker).Routes())
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + srv.URL[len("http"):] + "/ws/leaderboard"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	// The subscription is registered after the upgrade; keep publishing
	// until the first event arrives.
	got := make(chan string, 1)
	go func() {
		_, msg, err := conn.Read(ctx)
		if err != nil {
			close(got)
			return
		}
		got <- string(msg)
	}()

	want := `{"type":"leaderboard_updated","name":"Rosa","score":4}`
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case msg, ok := <-got:
			if !ok {
				t.Fatal("connection closed before any event")
			}
			if msg != want {
				t.Errorf("got %s, want %s", msg, want)
			}
			conn.Close(websocket.StatusNormalClosure, "done")
			return
		case <-tick.C:
			broker.Publish(leaderboard.Event{Type: leaderboard.EventUpdated, Name: "Rosa", Score: 4})
		case <-ctx.Done():
			t.Fatal("timed out waiting for event")
		}
	}
}
