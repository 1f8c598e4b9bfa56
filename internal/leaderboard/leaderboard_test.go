package leaderboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/playperu/geoquiz/internal/database"
	"github.com/playperu/geoquiz/internal/migrations"
)

func setupStore(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db, migrations.DialectSQLite); err != nil {
		t.Fatalf("migrations: %v", err)
	}

	s := NewSQLStore(db)
	s.now = tickingClock()
	return s
}

// tickingClock advances one second per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	clock := time.Date(2026, 2, 23, 0, 40, 12, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}
}

func TestRecordScoreOnlyUpdatesIfHigher(t *testing.T) {
	checkOnlyUpdatesIfHigher(t, setupStore(t))
}

// checkOnlyUpdatesIfHigher runs the alice/ALICE/Alice sequence against an
// empty store.
func checkOnlyUpdatesIfHigher(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	changed, err := s.RecordScore(ctx, "alice", 10)
	if err != nil || !changed {
		t.Fatalf("first record = %v, %v; want true", changed, err)
	}
	first, _ := s.TopEntries(ctx, 20)
	if len(first) != 1 || first[0].Name != "alice" || first[0].Score != 10 {
		t.Fatalf("after first record: %+v", first)
	}

	changed, err = s.RecordScore(ctx, "ALICE", 8)
	if err != nil || changed {
		t.Fatalf("lower score = %v, %v; want false", changed, err)
	}

	changed, err = s.RecordScore(ctx, "  alice ", 10)
	if err != nil || changed {
		t.Fatalf("tie = %v, %v; want false", changed, err)
	}
	tied, _ := s.TopEntries(ctx, 20)
	if tied[0].Name != "alice" || !tied[0].PlayedAt.Equal(first[0].PlayedAt) {
		t.Errorf("tie changed the row: %+v", tied[0])
	}

	changed, err = s.RecordScore(ctx, "Alice", 15)
	if err != nil || !changed {
		t.Fatalf("higher score = %v, %v; want true", changed, err)
	}

	top, err := s.TopEntries(ctx, 1)
	if err != nil {
		t.Fatalf("TopEntries: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("got %d entries, want 1", len(top))
	}
	if top[0].Score != 15 || top[0].Name != "Alice" {
		t.Errorf("top = %+v, want Alice 15", top[0])
	}
	if !top[0].PlayedAt.After(first[0].PlayedAt) {
		t.Errorf("played_at not advanced: %v <= %v", top[0].PlayedAt, first[0].PlayedAt)
	}
}

func TestRecordScoreCleansName(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	if _, err := s.RecordScore(ctx, "  Jean   Pierre ", 3); err != nil {
		t.Fatalf("RecordScore: %v", err)
	}
	changed, _ := s.RecordScore(ctx, "jean pierre", 2)
	if changed {
		t.Error("whitespace variant created a second row")
	}
	top, _ := s.TopEntries(ctx, 10)
	if len(top) != 1 || top[0].Name != "Jean Pierre" {
		t.Errorf("entries = %+v", top)
	}
}

func TestRecordScoreRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	if changed, err := s.RecordScore(ctx, "   ", 5); err != nil || changed {
		t.Errorf("blank name = %v, %v; want false, nil", changed, err)
	}
	if _, err := s.RecordScore(ctx, "bob", -1); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("negative score error = %v, want ErrInvalidScore", err)
	}
}

func TestTopEntriesOrdering(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	for _, r := range []struct {
		name  string
		score int
	}{
		{"carol", 12}, {"dave", 18}, {"erin", 12}, {"frank", 3},
	} {
		if _, err := s.RecordScore(ctx, r.name, r.score); err != nil {
			t.Fatalf("RecordScore(%s): %v", r.name, err)
		}
	}

	top, err := s.TopEntries(ctx, 3)
	if err != nil {
		t.Fatalf("TopEntries: %v", err)
	}
	want := []string{"dave", "erin", "carol"}
	if len(top) != len(want) {
		t.Fatalf("got %d entries, want %d", len(top), len(want))
	}
	for i, name := range want {
		if top[i].Name != name {
			t.Errorf("rank %d = %s, want %s", i+1, top[i].Name, name)
		}
	}

	if none, err := s.TopEntries(ctx, 0); err != nil || len(none) != 0 {
		t.Errorf("TopEntries(0) = %v, %v", none, err)
	}
}

func TestRecordScoreConcurrentConverges(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	var wg sync.WaitGroup
	for score := 1; score <= 20; score++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.RecordScore(ctx, "Racer", score); err != nil {
				t.Errorf("RecordScore(%d): %v", score, err)
			}
		}()
	}
	wg.Wait()

	top, err := s.TopEntries(ctx, 10)
	if err != nil {
		t.Fatalf("TopEntries: %v", err)
	}
	if len(top) != 1 || top[0].Score != 20 {
		t.Errorf("entries = %+v, want one row with score 20", top)
	}
}

func TestStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	s.db.Close()

	if _, err := s.RecordScore(ctx, "alice", 1); !errors.Is(err, ErrUnavailable) {
		t.Errorf("RecordScore on closed db = %v, want ErrUnavailable", err)
	}
	if _, err := s.TopEntries(ctx, 5); !errors.Is(err, ErrUnavailable) {
		t.Errorf("TopEntries on closed db = %v, want ErrUnavailable", err)
	}
}

func TestNameKey(t *testing.T) {
	if got := NameKey("  Ｊean   PIERRE "); got != NameKey("ｊEAN pierre") {
		t.Errorf("NameKey mismatch: %q", got)
	}
	if got := NameKey("Big  Al"); got != "big al" {
		t.Errorf("NameKey = %q, want %q", got, "big al")
	}
}

func TestFormatPlayedAt(t *testing.T) {
	ts := time.Date(2026, 2, 23, 0, 40, 12, 0, time.UTC)
	if got := FormatPlayedAt(ts); got != "23 Feb 2026" {
		t.Errorf("FormatPlayedAt = %q", got)
	}
	if got := FormatPlayedAt(time.Time{}); got != "" {
		t.Errorf("FormatPlayedAt(zero) = %q", got)
	}
}

func TestPublishingAnnouncesChanges(t *testing.T) {
	ctx := context.Background()
	broker := NewBroker()
	ch := broker.Subscribe()
	defer broker.Unsubscribe(ch)

	p := NewPublishing(setupStore(t), broker)

	if _, err := p.RecordScore(ctx, " Alice ", 9); err != nil {
		t.Fatalf("RecordScore: %v", err)
	}
	select {
	case data := <-ch:
		if string(data) != `{"type":"leaderboard_updated","name":"Alice","score":9}` {
			t.Errorf("event = %s", data)
		}
	default:
		t.Fatal("expected an event for a changed row")
	}

	if _, err := p.RecordScore(ctx, "alice", 4); err != nil {
		t.Fatalf("RecordScore: %v", err)
	}
	select {
	case data := <-ch:
		t.Errorf("unexpected event for unchanged row: %s", data)
	default:
	}
}
