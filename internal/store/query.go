package store

import (
	"context"
	"fmt"

	"github.com/tabletalk/tabletalk/internal/intentsql"
)

// ResultSet is a fully materialized query result. Columns and Rows are
// always non-nil: an empty result keeps its column list (when the driver
// reports one) and an empty row slice.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Select rebinds and runs a compiled statement, materializing every row.
func (s *Store) Select(ctx context.Context, stmt *intentsql.Statement) (*ResultSet, error) {
	text, args, err := s.Rebind(stmt)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, text, args...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	rs := &ResultSet{Columns: cols, Rows: [][]any{}}
	if rs.Columns == nil {
		rs.Columns = []string{}
	}

	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, c := range cells {
			// Drivers hand text back as []byte; strings are what
			// envelopes serialize.
			if b, ok := c.([]byte); ok {
				cells[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return rs, nil
}
