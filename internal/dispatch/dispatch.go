package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tabletalk/tabletalk/internal/intent"
	"github.com/tabletalk/tabletalk/internal/intentsql"
	"github.com/tabletalk/tabletalk/internal/store"
)

// Dispatcher runs compiled statements against the store.
type Dispatcher struct {
	store *store.Store
	log   *slog.Logger
}

// New creates a Dispatcher. A nil logger silences execution logging.
func New(st *store.Store, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{store: st, log: log}
}

// Execute classifies the statement, runs it in one blocking round trip,
// and reports the outcome as an ExecutionResult. Reads return rows or an
// aggregate scalar; anything else runs in a transaction that rolls back
// on failure.
func (d *Dispatcher) Execute(ctx context.Context, in *intent.Intent, stmt *intentsql.Statement) ExecutionResult {
	if isRead(stmt.Text) {
		return d.executeRead(ctx, in, stmt)
	}
	return d.executeMutation(ctx, stmt)
}

func (d *Dispatcher) executeRead(ctx context.Context, in *intent.Intent, stmt *intentsql.Statement) ExecutionResult {
	rs, err := d.store.Select(ctx, stmt)
	if err != nil {
		d.log.Error("query execution failed", "error", err)
		return Failure{Message: fmt.Sprintf("Error executing query: %v", err)}
	}
	d.log.Debug("query executed", "columns", len(rs.Columns), "rows", len(rs.Rows))

	// Scalar aggregates collapse to one labeled value. Grouped
	// aggregates stay tabular.
	if in != nil && in.Aggregate && len(in.GroupBy) == 0 {
		var value any
		if len(rs.Rows) > 0 && len(rs.Rows[0]) > 0 {
			value = rs.Rows[0][0]
		}
		label := in.AggregateLabel
		if label == "" {
			label = "Result"
		}
		return Scalar{Label: label, Value: value}
	}

	// Column names travel with the rows; an empty result reports no
	// columns at all, matching the envelope contract for empty tables.
	cols := rs.Columns
	if len(rs.Rows) == 0 {
		cols = []string{}
	}
	return Rows{Columns: cols, Values: mapRows(rs)}
}

// mapRows rekeys the store's positional rows by column name.
func mapRows(rs *store.ResultSet) []map[string]any {
	rows := make([]map[string]any, len(rs.Rows))
	for i, cells := range rs.Rows {
		row := make(map[string]any, len(rs.Columns))
		for j, col := range rs.Columns {
			if j < len(cells) {
				row[col] = cells[j]
			}
		}
		rows[i] = row
	}
	return rows
}

func (d *Dispatcher) executeMutation(ctx context.Context, stmt *intentsql.Statement) ExecutionResult {
	text, args, err := d.store.Rebind(stmt)
	if err != nil {
		return Failure{Message: err.Error()}
	}

	tx, err := d.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return Failure{Message: fmt.Sprintf("Error executing query: %v", err)}
	}

	res, err := tx.ExecContext(ctx, text, args...)
	if err != nil {
		tx.Rollback()
		d.log.Error("mutation failed", "error", err)
		return Failure{Message: fmt.Sprintf("Error executing query: %v", err)}
	}
	if err := tx.Commit(); err != nil {
		return Failure{Message: fmt.Sprintf("Error executing query: %v", err)}
	}

	n, err := res.RowsAffected()
	if err != nil {
		n = 0
	}
	return AffectedCount{N: n}
}

// Shape converts an execution result into the response envelope. The
// switch is exhaustive over the result union; an unknown kind is a
// programmer error surfaced as an error envelope rather than a panic.
func Shape(query, sqlText string, result ExecutionResult) Envelope {
	switch r := result.(type) {
	case Rows:
		return Envelope{
			Type:    TypeTable,
			Columns: r.Columns,
			Rows:    r.Values,
			Query:   query,
			SQL:     sqlText,
		}
	case Scalar:
		return Envelope{
			Type:  TypeMetric,
			Label: r.Label,
			Value: r.Value,
			Query: query,
			SQL:   sqlText,
		}
	case AffectedCount:
		return Envelope{
			Type:    TypeSuccess,
			Message: fmt.Sprintf("Query executed successfully. Rows affected: %d", r.N),
			Query:   query,
			SQL:     sqlText,
		}
	case Failure:
		return ErrorEnvelope(query, r.Message, nil)
	default:
		return ErrorEnvelope(query, fmt.Sprintf("unknown execution result %T", result), nil)
	}
}

func isRead(sqlText string) bool {
	head := strings.ToUpper(strings.TrimSpace(sqlText))
	return strings.HasPrefix(head, "SELECT") || strings.HasPrefix(head, "WITH")
}
