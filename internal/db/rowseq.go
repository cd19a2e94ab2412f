package db

import (
	"database/sql"
	"fmt"
)

// RowSequence exposes a SQL query's result rows as a finite,
// forward-only layer data sequence. Rows are streamed, never held in
// memory, so deriving an instance count means running the query and
// consuming it fully once - exactly the non-random-access case the
// layer core's count derivation supports.
//
// It implements the layer package's Sequence interface.
type RowSequence struct {
	db    *sql.DB
	query string
	args  []any
}

// NewRowSequence wraps a query as a layer data sequence. The query is
// not executed until the sequence is iterated.
func NewRowSequence(db *sql.DB, query string, args ...any) *RowSequence {
	return &RowSequence{db: db, query: query, args: args}
}

// Query returns the SQL backing the sequence.
func (s *RowSequence) Query() string { return s.query }

// Each runs the query and calls fn with one map[string]any per row.
// Iteration stops early when fn returns false.
func (s *RowSequence) Each(fn func(element any) bool) error {
	rows, err := s.db.Query(s.query, s.args...)
	if err != nil {
		return fmt.Errorf("querying layer data: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("reading columns: %w", err)
	}

	values := make([]any, len(columns))
	scan := make([]any, len(columns))
	for i := range values {
		scan[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		element := make(map[string]any, len(columns))
		for i, col := range columns {
			element[col] = values[i]
		}
		if !fn(element) {
			return nil
		}
	}
	return rows.Err()
}
