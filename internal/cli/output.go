package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tabletalk/tabletalk/internal/dispatch"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Query rejected or execution failed
	ExitCommandError = 2 // Command error (bad config, database unreachable, etc.)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostic output (defaults to Writer)
	Verbose   bool
}

// Envelope renders a response envelope in the configured format. JSON
// mode emits the envelope verbatim; text mode renders metric values,
// table grids, and error suggestions for humans.
func (f *OutputFormatter) Envelope(env dispatch.Envelope) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(env)
	}

	switch env.Type {
	case dispatch.TypeMetric:
		fmt.Fprintf(f.Writer, "%s: %v\n", env.Label, env.Value)
	case dispatch.TypeTable:
		f.table(env.Columns, env.Rows)
	case dispatch.TypeSuccess:
		fmt.Fprintln(f.Writer, env.Message)
	case dispatch.TypeError:
		fmt.Fprintf(f.Writer, "Error: %s\n", env.Message)
		for _, s := range env.Suggestions {
			fmt.Fprintf(f.Writer, "  - %s\n", s)
		}
	}
	if f.Verbose && env.SQL != "" {
		fmt.Fprintf(f.GetErrWriter(), "sql: %s\n", env.SQL)
	}
	return nil
}

// table renders a simple aligned grid. Zero rows still print the header
// so the caller can see which columns the query selected.
func (f *OutputFormatter) table(columns []string, rows []map[string]any) {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			var s string
			if v, ok := row[col]; ok && v != nil {
				s = fmt.Sprintf("%v", v)
			}
			cells[r][i] = s
			if len(s) > widths[i] {
				widths[i] = len(s)
			}
		}
	}

	var b strings.Builder
	for i, c := range columns {
		fmt.Fprintf(&b, "%-*s  ", widths[i], c)
	}
	fmt.Fprintln(f.Writer, strings.TrimRight(b.String(), " "))
	for _, row := range cells {
		b.Reset()
		for i, s := range row {
			fmt.Fprintf(&b, "%-*s  ", widths[i], s)
		}
		fmt.Fprintln(f.Writer, strings.TrimRight(b.String(), " "))
	}
	fmt.Fprintf(f.Writer, "(%d rows)\n", len(rows))
}

// Success outputs a non-envelope result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(map[string]any{
			"status": "ok",
			"data":   data,
		})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled. When
// format is JSON, diagnostics go to ErrWriter so JSON output stays
// parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
