package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletalk/tabletalk/internal/dispatch"
	"github.com/tabletalk/tabletalk/internal/testutil"
)

func newSeededService(t *testing.T) *Service {
	t.Helper()
	return New(testutil.Registry(t), testutil.OpenSeededStore(t), nil)
}

func TestTranslateAndRun_AllCustomers(t *testing.T) {
	svc := newSeededService(t)

	env := svc.TranslateAndRun(context.Background(), "Show me all customers")
	require.Equal(t, dispatch.TypeTable, env.Type)
	assert.Contains(t, env.Columns, "customerid")
	assert.NotEmpty(t, env.Rows)
	assert.Equal(t, "Show me all customers", env.Query)
	assert.Contains(t, env.SQL, "SELECT * FROM customers")
}

func TestTranslateAndRun_CountIsMetric(t *testing.T) {
	svc := newSeededService(t)

	env := svc.TranslateAndRun(context.Background(), "How many female customers are there?")
	require.Equal(t, dispatch.TypeMetric, env.Type)
	assert.Equal(t, "Total Female Customers", env.Label)
	assert.NotNil(t, env.Value)
}

func TestTranslateAndRun_GroupedAverageIsTable(t *testing.T) {
	svc := newSeededService(t)

	env := svc.TranslateAndRun(context.Background(), "What is the average income by gender?")
	require.Equal(t, dispatch.TypeTable, env.Type)
	assert.Equal(t, []string{"gender", "avg_annual_income_k"}, env.Columns)
	assert.Len(t, env.Rows, 2)
}

func TestTranslateAndRun_ZeroRowFilterIsEmptyTable(t *testing.T) {
	svc := newSeededService(t)

	env := svc.TranslateAndRun(context.Background(), "customers where age > 999")
	require.Equal(t, dispatch.TypeTable, env.Type, "an empty result is a table, not an error")
	assert.Empty(t, env.Columns)
	assert.Empty(t, env.Rows)

	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"columns":[]`)
	assert.Contains(t, string(data), `"rows":[]`)
}

func TestTranslateAndRun_RejectionCarriesSuggestions(t *testing.T) {
	svc := newSeededService(t)

	env := svc.TranslateAndRun(context.Background(), "qwzx flurble")
	require.Equal(t, dispatch.TypeError, env.Type)
	assert.Contains(t, env.Message, "didn't understand")
	assert.Len(t, env.Suggestions, 4)
}

func TestTranslateAndRun_UnknownField(t *testing.T) {
	svc := newSeededService(t)

	env := svc.TranslateAndRun(context.Background(), "show customers where height > 180")
	require.Equal(t, dispatch.TypeError, env.Type)
	assert.Contains(t, env.Message, "Unknown field: height")
	assert.Len(t, env.Suggestions, 4)
}

func TestCompile_DoesNotNeedStore(t *testing.T) {
	svc := New(testutil.Registry(t), nil, nil)

	out, err := svc.Compile("show customers older than 30")
	require.NoError(t, err)
	assert.Contains(t, out.Statement.Text, "WHERE age > :p1")
	assert.False(t, out.Aggregate)
}

func TestCompile_RejectsGibberish(t *testing.T) {
	svc := New(testutil.Registry(t), nil, nil)

	_, err := svc.Compile("qwzx flurble")
	require.Error(t, err)
}
