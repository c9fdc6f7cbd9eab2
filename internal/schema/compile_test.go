package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Registry(t *testing.T) {
	reg, err := Compile()
	require.NoError(t, err)

	assert.Equal(t, "customers", reg.Table)
	assert.Equal(t, "customerid", reg.Identifier)
	assert.Len(t, reg.Columns, 10)
	assert.Len(t, reg.Suggestions, 4)
}

func TestRegistry_LookupByNameAndAlias(t *testing.T) {
	reg, err := Compile()
	require.NoError(t, err)

	tests := []struct {
		spelling string
		column   string
	}{
		{"age", "age"},
		{"income", "annual_income_k"},
		{"annual income", "annual_income_k"},
		{"salary", "annual_income_k"},
		{"spending score", "spending_score"},
		{"credit rating", "credit_score"},
		{"id", "customerid"},
		{"loyalty", "loyalty_years"},
		{"category", "preferred_category"},
		{"savings", "estimated_savings_k"},
	}
	for _, tt := range tests {
		col, ok := reg.Lookup(tt.spelling)
		require.True(t, ok, "lookup %q", tt.spelling)
		assert.Equal(t, tt.column, col.Name)
	}

	_, ok := reg.Lookup("height")
	assert.False(t, ok)
}

func TestRegistry_Kinds(t *testing.T) {
	reg, err := Compile()
	require.NoError(t, err)

	assert.Equal(t, KindNumeric, reg.Kind("age"))
	assert.Equal(t, KindNumeric, reg.Kind("income"))
	assert.Equal(t, KindText, reg.Kind("gender"))
	assert.Equal(t, KindText, reg.Kind("preferred_category"))
	// Unknown spellings default to text so comparisons degrade safely.
	assert.Equal(t, KindText, reg.Kind("nonsense"))
}

func TestRegistry_Categories(t *testing.T) {
	reg, err := Compile()
	require.NoError(t, err)

	require.Contains(t, reg.Categories, "Luxury")
	require.Contains(t, reg.Categories, "Budget")
	require.Contains(t, reg.Categories, "Standard")
	assert.Contains(t, reg.Categories["Luxury"], "premium")
	assert.Contains(t, reg.Categories["Budget"], "affordable")
}

func TestDefault_CachesOneRegistry(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}
