package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/playperu/geoquiz/internal/database"
)

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "leaderboard.db")

	db, err := database.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
}

func TestOpenMemorySharesOneDatabase(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n); err != nil {
		t.Fatalf("table not visible on later query: %v", err)
	}
}

func TestOpenPostgresBadDSN(t *testing.T) {
	if _, err := database.OpenPostgres(context.Background(), "://not a dsn", database.PoolConfig{}); err == nil {
		t.Fatal("expected error for malformed dsn")
	}
}
