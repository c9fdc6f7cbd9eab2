package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletalk/tabletalk/internal/dispatch"
)

func TestOutputFormatter_MetricText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	err := f.Envelope(dispatch.Envelope{
		Type:  dispatch.TypeMetric,
		Label: "Total Customers",
		Value: 26,
	})
	require.NoError(t, err)
	assert.Equal(t, "Total Customers: 26\n", buf.String())
}

func TestOutputFormatter_TableText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	err := f.Envelope(dispatch.Envelope{
		Type:    dispatch.TypeTable,
		Columns: []string{"gender", "count"},
		Rows: []map[string]any{
			{"gender": "Female", "count": 13},
			{"gender": "Male", "count": 13},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "gender  count", lines[0])
	assert.Equal(t, "Female  13", lines[1])
	assert.Equal(t, "(2 rows)", lines[3])
}

func TestOutputFormatter_EmptyTableKeepsHeader(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	err := f.Envelope(dispatch.Envelope{
		Type:    dispatch.TypeTable,
		Columns: []string{"customerid"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "customerid")
	assert.Contains(t, buf.String(), "(0 rows)")
}

func TestOutputFormatter_ErrorTextWithSuggestions(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	err := f.Envelope(dispatch.Envelope{
		Type:        dispatch.TypeError,
		Message:     "Sorry, I didn't understand your query. Here are some examples:",
		Suggestions: []string{"Show me all customers", "How many female customers are there?"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error: Sorry")
	assert.Contains(t, buf.String(), "  - Show me all customers\n")
}

func TestOutputFormatter_JSONVerbatim(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	err := f.Envelope(dispatch.Envelope{
		Type:  dispatch.TypeMetric,
		Label: "Total Customers",
		Value: 26,
		Query: "count customers",
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"metric","label":"Total Customers","value":26,"query":"count customers"}`,
		buf.String())
}

func TestOutputFormatter_VerboseSQLGoesToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &out, ErrWriter: &errOut, Verbose: true}

	err := f.Envelope(dispatch.Envelope{
		Type:  dispatch.TypeMetric,
		Label: "Total",
		Value: 1,
		SQL:   "SELECT COUNT(*) AS count FROM customers",
	})
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "SELECT")
	assert.Contains(t, errOut.String(), "sql: SELECT COUNT(*) AS count FROM customers")
}

func TestExitError_CodeExtraction(t *testing.T) {
	base := errors.New("db connect failed")
	err := WrapExitError(ExitCommandError, "open store", base)

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "open store: db connect failed", err.Error())
	assert.ErrorIs(t, err, base)

	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}
