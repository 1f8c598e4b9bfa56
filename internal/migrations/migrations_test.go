package migrations_test

import (
	"context"
	"testing"

	"github.com/playperu/geoquiz/internal/database"
	"github.com/playperu/geoquiz/internal/migrations"
)

func TestMigrations(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db, migrations.DialectSQLite); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	for _, table := range []string{"leaderboard", "goose_db_version"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}

	if _, err := db.Exec(`INSERT INTO leaderboard (name, name_key, score, played_at) VALUES ('x', 'x', -1, '')`); err == nil {
		t.Error("expected negative score to violate the check constraint")
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db, migrations.DialectSQLite); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(db, migrations.DialectSQLite); err != nil {
		t.Fatalf("second run (should be no-op): %v", err)
	}
}

func TestMigrationsUnknownDialect(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db, "oracle-ish"); err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}
