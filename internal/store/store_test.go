package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletalk/tabletalk/internal/intent"
	"github.com/tabletalk/tabletalk/internal/intentsql"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	st, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestOpen_AppliesSchema(t *testing.T) {
	st := openMemory(t)

	var count int
	err := st.DB().QueryRow("SELECT COUNT(*) FROM customers").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSeed_PopulatesOnce(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	n, err := st.Seed(ctx)
	require.NoError(t, err)
	assert.Greater(t, n, 0)

	// Second seed is a no-op.
	n, err = st.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	var count int
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM customers").Scan(&count))
	assert.Equal(t, len(seedRows), count)
}

func TestRebind_SQLitePlaceholders(t *testing.T) {
	st := openMemory(t)

	stmt := &intentsql.Statement{
		Text: "SELECT * FROM customers WHERE age > :p1 LIMIT :p2",
		Params: map[string]intent.Value{
			"p1": intent.Number(30),
			"p2": intent.Number(10),
		},
		ParamOrder: []string{"p1", "p2"},
	}
	text, args, err := st.Rebind(stmt)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM customers WHERE age > ? LIMIT ?", text)
	assert.Equal(t, []any{float64(30), float64(10)}, args)
}

func TestRebind_PostgresPlaceholders(t *testing.T) {
	// Driver-specific rewriting needs no live connection.
	st := &Store{driver: DriverPostgres}

	stmt := &intentsql.Statement{
		Text: "SELECT * FROM customers WHERE age BETWEEN :p1 AND :p2",
		Params: map[string]intent.Value{
			"p1": intent.Number(30),
			"p2": intent.Number(40),
		},
		ParamOrder: []string{"p1", "p2"},
	}
	text, args, err := st.Rebind(stmt)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM customers WHERE age BETWEEN $1 AND $2", text)
	assert.Equal(t, []any{float64(30), float64(40)}, args)
}

func TestRebind_UnboundParameter(t *testing.T) {
	st := openMemory(t)

	stmt := &intentsql.Statement{
		Text:   "SELECT * FROM customers WHERE age > :p9",
		Params: map[string]intent.Value{},
	}
	_, _, err := st.Rebind(stmt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p9")
}

func TestSelect_MaterializesRows(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()
	_, err := st.Seed(ctx)
	require.NoError(t, err)

	stmt := &intentsql.Statement{
		Text: "SELECT customerid, gender FROM customers WHERE age >= :p1 ORDER BY customerid ASC",
		Params: map[string]intent.Value{
			"p1": intent.Number(65),
		},
		ParamOrder: []string{"p1"},
	}
	rs, err := st.Select(ctx, stmt)
	require.NoError(t, err)
	assert.Equal(t, []string{"customerid", "gender"}, rs.Columns)
	require.NotEmpty(t, rs.Rows)
	for _, row := range rs.Rows {
		require.Len(t, row, 2)
		assert.IsType(t, "", row[1], "gender scans as string")
	}
}

func TestSelect_EmptyResultKeepsShape(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	stmt := &intentsql.Statement{
		Text:   "SELECT customerid, age FROM customers",
		Params: map[string]intent.Value{},
	}
	rs, err := st.Select(ctx, stmt)
	require.NoError(t, err)
	assert.Equal(t, []string{"customerid", "age"}, rs.Columns)
	assert.NotNil(t, rs.Rows)
	assert.Empty(t, rs.Rows)
}
