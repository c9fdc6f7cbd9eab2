// Package testutil provides shared helpers for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tabletalk/tabletalk/internal/schema"
	"github.com/tabletalk/tabletalk/internal/store"
)

// OpenStore opens a fresh in-memory SQLite store with the schema applied.
// The store is closed automatically when the test finishes.
func OpenStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, ":memory:")
	require.NoError(t, err, "open in-memory store")
	t.Cleanup(func() { st.Close() })
	return st
}

// OpenSeededStore opens an in-memory store populated with the sample
// dataset, so queries have rows to answer with.
func OpenSeededStore(t *testing.T) *store.Store {
	t.Helper()
	st := OpenStore(t)
	n, err := st.Seed(context.Background())
	require.NoError(t, err, "seed sample data")
	require.Greater(t, n, 0, "sample dataset must not be empty")
	return st
}

// Registry compiles the dataset contract, failing the test on error.
func Registry(t *testing.T) *schema.Registry {
	t.Helper()
	reg, err := schema.Compile()
	require.NoError(t, err, "compile dataset contract")
	return reg
}
