package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_RejectsNonAlphanumeric(t *testing.T) {
	r := newTestResolver(t)

	for _, q := range []string{"", "   ", "@#$%", "???", "-- --"} {
		err := r.Validate(Normalize(q))
		var reject *RejectError
		require.ErrorAs(t, err, &reject, "input %q", q)
		assert.Equal(t, "Please enter a valid query", reject.Message)
		assert.Len(t, reject.Suggestions, 4)
	}
}

func TestValidate_RejectsUnrecognizedVocabulary(t *testing.T) {
	r := newTestResolver(t)

	err := r.Validate(Normalize("frobnicate wug blarg"))
	var reject *RejectError
	require.ErrorAs(t, err, &reject)
	assert.Contains(t, reject.Message, "didn't understand")
	assert.Equal(t, []string{
		"Show me all customers",
		"Count female customers",
		"List customers with age > 30",
		"Show average income by gender",
	}, reject.Suggestions)
}

func TestValidate_AcceptsVocabularyWords(t *testing.T) {
	r := newTestResolver(t)

	for _, q := range []string{
		"show me all customers",
		"COUNT FEMALE CUSTOMERS",
		"age>30",
		"top 10 spenders",
	} {
		assert.NoError(t, r.Validate(Normalize(q)), "input %q", q)
	}
}

func TestNormalize_Views(t *testing.T) {
	n := Normalize("  Show Me ALL Customers  ")
	assert.Equal(t, "Show Me ALL Customers", n.Original)
	assert.Equal(t, "show me all customers", n.Lower)
	assert.Equal(t, "customers", n.Stopless)
}

func TestNormalize_Empty(t *testing.T) {
	n := Normalize("")
	assert.Empty(t, n.Original)
	assert.Empty(t, n.Lower)
	assert.Empty(t, n.Stopless)
}
