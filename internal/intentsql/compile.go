// Package intentsql compiles a typed Intent into one parameterized SQL
// statement. Values are never interpolated into the statement text: every
// value extracted from request text travels as a named parameter, and the
// statement text is assembled only from contract-validated identifiers
// and fixed keywords.
package intentsql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tabletalk/tabletalk/internal/intent"
)

// Statement is a compiled query: SQL text with :pN placeholders plus the
// values bound to them. ParamOrder preserves first-use order so stores
// can rewrite placeholders to driver-positional form.
type Statement struct {
	Text       string
	Params     map[string]intent.Value
	ParamOrder []string
}

// Args returns the bound values as native Go types, in placeholder order.
func (s *Statement) Args() []any {
	args := make([]any, len(s.ParamOrder))
	for i, name := range s.ParamOrder {
		args[i] = intent.Native(s.Params[name])
	}
	return args
}

// Compile renders the intent as a single SELECT statement.
func Compile(in *intent.Intent) (*Statement, error) {
	if in == nil {
		return nil, fmt.Errorf("cannot compile nil intent")
	}
	if in.From == "" {
		return nil, fmt.Errorf("intent names no table")
	}

	c := &compiler{stmt: &Statement{Params: make(map[string]intent.Value)}}

	var b strings.Builder
	b.WriteString("SELECT ")
	if len(in.Select) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(strings.Join(in.Select, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(in.From)

	if len(in.Where) > 0 {
		parts := make([]string, 0, len(in.Where))
		for _, p := range in.Where {
			sql, err := c.predicate(p)
			if err != nil {
				return nil, err
			}
			parts = append(parts, sql)
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(parts, " AND "))
	}

	if len(in.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(in.GroupBy, ", "))
	}
	if len(in.Having) > 0 {
		b.WriteString(" HAVING ")
		b.WriteString(strings.Join(in.Having, " AND "))
	}

	if len(in.OrderBy) > 0 {
		keys := make([]string, len(in.OrderBy))
		for i, k := range in.OrderBy {
			dir := " ASC"
			if k.Desc {
				dir = " DESC"
			}
			keys[i] = k.Field + dir
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(keys, ", "))
	}

	if in.Limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(c.bind(intent.Number(float64(*in.Limit))))
	}

	c.stmt.Text = b.String()
	return c.stmt, nil
}

type compiler struct {
	stmt *Statement
	n    int
}

// bind registers a value under the next :pN name and returns the
// placeholder for splicing into the statement text.
func (c *compiler) bind(v intent.Value) string {
	c.n++
	name := "p" + strconv.Itoa(c.n)
	c.stmt.Params[name] = v
	c.stmt.ParamOrder = append(c.stmt.ParamOrder, name)
	return ":" + name
}

func (c *compiler) predicate(p intent.Predicate) (string, error) {
	switch pred := p.(type) {
	case intent.Condition:
		return c.condition(pred)
	case intent.And:
		return c.junction(pred.Preds, " AND ")
	case intent.Or:
		return c.junction(pred.Preds, " OR ")
	case intent.FragmentMatch:
		// Recovered free-text fragment. The fragment is bound, never
		// spliced: the comparison is vacuous and the row set unfiltered,
		// but the statement text stays fixed.
		a := c.bind(intent.Text(pred.Fragment))
		b := c.bind(intent.Text(pred.Fragment))
		return fmt.Sprintf("LOWER(%s) LIKE '%%' || LOWER(%s) || '%%'", a, b), nil
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *compiler) junction(preds []intent.Predicate, sep string) (string, error) {
	if len(preds) == 0 {
		return "1 = 1", nil
	}
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		sql, err := c.predicate(p)
		if err != nil {
			return "", err
		}
		parts = append(parts, sql)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func (c *compiler) condition(cond intent.Condition) (string, error) {
	if cond.Field == "" {
		return "", fmt.Errorf("condition names no field")
	}

	switch cond.Op {
	case intent.OpIsNull:
		return cond.Field + " IS NULL", nil
	case intent.OpIsNotNull:
		return cond.Field + " IS NOT NULL", nil
	case intent.OpBetween:
		low := c.bind(cond.Value)
		high := c.bind(cond.High)
		return fmt.Sprintf("%s BETWEEN %s AND %s", cond.Field, low, high), nil
	}

	if cond.FoldCase {
		ph := c.bind(cond.Value)
		switch cond.Op {
		case intent.OpLike, intent.OpNotLike:
			return fmt.Sprintf("LOWER(%s) %s '%%' || LOWER(%s) || '%%'",
				cond.Field, cond.Op, ph), nil
		default:
			return fmt.Sprintf("LOWER(%s) %s LOWER(%s)", cond.Field, cond.Op, ph), nil
		}
	}

	return fmt.Sprintf("%s %s %s", cond.Field, cond.Op, c.bind(cond.Value)), nil
}
