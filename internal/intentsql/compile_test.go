package intentsql

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletalk/tabletalk/internal/intent"
)

func limit(n int) *int {
	return &n
}

func TestCompile_NilIntent(t *testing.T) {
	_, err := Compile(nil)
	assert.Error(t, err)
}

func TestCompile_MissingTable(t *testing.T) {
	_, err := Compile(&intent.Intent{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table")
}

func TestCompile_BareSelect(t *testing.T) {
	stmt, err := Compile(&intent.Intent{From: "customers"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM customers", stmt.Text)
	assert.Empty(t, stmt.ParamOrder)
}

func TestCompile_ConditionBindsValue(t *testing.T) {
	stmt, err := Compile(&intent.Intent{
		From:  "customers",
		Where: []intent.Predicate{intent.Condition{Field: "age", Op: intent.OpGt, Value: intent.Number(30)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM customers WHERE age > :p1", stmt.Text)
	assert.Equal(t, []any{float64(30)}, stmt.Args())
}

func TestCompile_FoldCaseEquality(t *testing.T) {
	stmt, err := Compile(&intent.Intent{
		From: "customers",
		Where: []intent.Predicate{intent.Condition{
			Field: "gender", Op: intent.OpEq, Value: intent.Text("Female"), FoldCase: true,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM customers WHERE LOWER(gender) = LOWER(:p1)", stmt.Text)
	assert.Equal(t, []any{"Female"}, stmt.Args())
}

func TestCompile_FoldCaseLikeWrapsWildcards(t *testing.T) {
	stmt, err := Compile(&intent.Intent{
		From: "customers",
		Where: []intent.Predicate{intent.Condition{
			Field: "preferred_category", Op: intent.OpLike, Value: intent.Text("lux"), FoldCase: true,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM customers WHERE LOWER(preferred_category) LIKE '%' || LOWER(:p1) || '%'",
		stmt.Text)
}

func TestCompile_BetweenBindsBothBounds(t *testing.T) {
	stmt, err := Compile(&intent.Intent{
		From: "customers",
		Where: []intent.Predicate{intent.Condition{
			Field: "age", Op: intent.OpBetween,
			Value: intent.Number(30), High: intent.Number(40),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM customers WHERE age BETWEEN :p1 AND :p2", stmt.Text)
	assert.Equal(t, []any{float64(30), float64(40)}, stmt.Args())
}

func TestCompile_NullChecksBindNothing(t *testing.T) {
	stmt, err := Compile(&intent.Intent{
		From: "customers",
		Where: []intent.Predicate{
			intent.Condition{Field: "age_group", Op: intent.OpIsNull, Value: intent.Null{}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM customers WHERE age_group IS NULL", stmt.Text)
	assert.Empty(t, stmt.ParamOrder)
}

func TestCompile_FragmentBindsNotSplices(t *testing.T) {
	// A recovered fragment must never appear in the statement text, even
	// one that looks like SQL.
	frag := "1=1; DROP TABLE customers --"
	stmt, err := Compile(&intent.Intent{
		From:  "customers",
		Where: []intent.Predicate{intent.FragmentMatch{Fragment: frag}},
	})
	require.NoError(t, err)
	assert.NotContains(t, stmt.Text, "DROP")
	assert.Equal(t, []any{frag, frag}, stmt.Args())
}

func TestCompile_LimitIsBound(t *testing.T) {
	stmt, err := Compile(&intent.Intent{
		From:    "customers",
		OrderBy: []intent.OrderKey{{Field: "customerid"}},
		Limit:   limit(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM customers ORDER BY customerid ASC LIMIT :p1", stmt.Text)
	assert.Equal(t, []any{float64(1000)}, stmt.Args())
}

func TestCompile_OrderKeyDirections(t *testing.T) {
	stmt, err := Compile(&intent.Intent{
		From: "customers",
		OrderBy: []intent.OrderKey{
			{Field: "spending_score", Desc: true},
			{Field: "customerid"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM customers ORDER BY spending_score DESC, customerid ASC", stmt.Text)
}

// render prints a statement the way the golden corpus stores it: the SQL
// line followed by one "name = value" line per bound parameter.
func render(stmt *Statement) string {
	var b strings.Builder
	b.WriteString(stmt.Text)
	b.WriteString("\n")
	for _, name := range stmt.ParamOrder {
		fmt.Fprintf(&b, "%s = %v\n", name, intent.Native(stmt.Params[name]))
	}
	return b.String()
}

func TestCompile_GoldenCorpus(t *testing.T) {
	cases := []struct {
		name string
		in   *intent.Intent
	}{
		{
			name: "all-rows",
			in: &intent.Intent{
				From:    "customers",
				OrderBy: []intent.OrderKey{{Field: "customerid"}},
				Limit:   limit(1000),
			},
		},
		{
			name: "filtered",
			in: &intent.Intent{
				From: "customers",
				Where: []intent.Predicate{
					intent.Condition{Field: "age", Op: intent.OpGt, Value: intent.Number(30)},
				},
				OrderBy: []intent.OrderKey{{Field: "customerid"}},
				Limit:   limit(1000),
			},
		},
		{
			name: "count-by-gender",
			in: &intent.Intent{
				Select: []string{"COUNT(*) AS count"},
				From:   "customers",
				Where: []intent.Predicate{
					intent.Condition{Field: "gender", Op: intent.OpEq, Value: intent.Text("Female"), FoldCase: true},
				},
				Aggregate: true,
			},
		},
		{
			name: "grouped-average",
			in: &intent.Intent{
				Select:    []string{"gender", "AVG(annual_income_k) AS avg_annual_income_k"},
				From:      "customers",
				GroupBy:   []string{"gender"},
				OrderBy:   []intent.OrderKey{{Field: "gender"}},
				Aggregate: true,
			},
		},
		{
			name: "disjunction",
			in: &intent.Intent{
				From: "customers",
				Where: []intent.Predicate{
					intent.Or{Preds: []intent.Predicate{
						intent.Condition{Field: "age", Op: intent.OpGt, Value: intent.Number(60)},
						intent.Condition{Field: "age", Op: intent.OpLt, Value: intent.Number(20)},
					}},
				},
				OrderBy: []intent.OrderKey{{Field: "customerid"}},
				Limit:   limit(1000),
			},
		},
		{
			name: "recovered-fragment",
			in: &intent.Intent{
				From: "customers",
				Where: []intent.Predicate{
					intent.FragmentMatch{Fragment: "high spending"},
				},
				OrderBy: []intent.OrderKey{{Field: "customerid"}},
				Limit:   limit(1000),
			},
		},
	}

	var b strings.Builder
	for _, c := range cases {
		stmt, err := Compile(c.in)
		require.NoError(t, err, c.name)
		fmt.Fprintf(&b, "-- %s\n", c.name)
		b.WriteString(render(stmt))
		b.WriteString("\n")
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "corpus", []byte(b.String()))
}
