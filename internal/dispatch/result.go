// Package dispatch executes compiled statements against the store and
// shapes the response envelope. Execution produces a closed result union;
// envelope shaping is an exhaustive switch over it, so a new result kind
// cannot silently fall through.
package dispatch

// ExecutionResult is the outcome of running one statement. Implementations
// are the only four kinds the dispatcher can produce.
type ExecutionResult interface {
	executionResult()
}

// Rows is a materialized result set from a read statement. Each row maps
// column name to cell value; Columns preserves the selection order and is
// empty when the result has no rows.
type Rows struct {
	Columns []string
	Values  []map[string]any
}

// Scalar is a single aggregate value with its display label.
type Scalar struct {
	Label string
	Value any
}

// AffectedCount reports rows changed by a mutation statement.
type AffectedCount struct {
	N int64
}

// Failure is an execution-time error: the statement reached the database
// and the database said no.
type Failure struct {
	Message string
}

func (Rows) executionResult()          {}
func (Scalar) executionResult()        {}
func (AffectedCount) executionResult() {}
func (Failure) executionResult()       {}
