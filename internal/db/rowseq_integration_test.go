//go:build integration

// Integration test for DuckDB-backed layer data sequences.
// Requires CGO and the duckdb driver.
//
// Run: go test -tags=integration ./internal/db/
package db

import (
	"database/sql"
	"testing"

	"github.com/GiovanniAiello/deck.gl/pkg/layer"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRowSequenceEach(t *testing.T) {
	conn := openTestDB(t)
	if _, err := conn.Exec(`CREATE TABLE points (lng DOUBLE, lat DOUBLE)`); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`INSERT INTO points VALUES (-122.45, 37.78), (13.4, 52.5), (0, 0)`); err != nil {
		t.Fatal(err)
	}

	seq := NewRowSequence(conn, `SELECT lng, lat FROM points`)
	var rows []map[string]any
	err := seq.Each(func(element any) bool {
		rows = append(rows, element.(map[string]any))
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if _, ok := rows[0]["lng"]; !ok {
		t.Fatalf("row missing lng column: %v", rows[0])
	}
}

func TestRowSequenceDrivesInstanceCount(t *testing.T) {
	conn := openTestDB(t)
	if _, err := conn.Exec(`CREATE TABLE pts AS SELECT range AS n FROM range(7)`); err != nil {
		t.Fatal(err)
	}

	n, err := layer.Count(NewRowSequence(conn, `SELECT n FROM pts`))
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Fatalf("got count %d, want 7", n)
	}
}

func TestRowSequenceBadQuery(t *testing.T) {
	conn := openTestDB(t)
	err := NewRowSequence(conn, `SELECT * FROM missing_table`).Each(func(any) bool { return true })
	if err == nil {
		t.Fatal("querying a missing table did not fail")
	}
}
