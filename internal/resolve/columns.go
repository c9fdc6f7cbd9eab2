package resolve

import (
	"fmt"
	"regexp"

	"github.com/tabletalk/tabletalk/internal/intent"
	"github.com/tabletalk/tabletalk/internal/schema"
)

// columnPatterns holds the compiled generic scan patterns for one column:
// `<column> <op> <number>` and the reversed `<op> <number> <column>`, with
// both symbolic operators and word aliases.
type columnPatterns struct {
	column   string
	forward  *regexp.Regexp
	reversed *regexp.Regexp
}

// directColumns is the generic column-operator-value scan. It runs over
// every numeric column by canonical name, appending one condition per
// matched column and marking the field processed. Text columns are left
// to their dedicated heuristics, which know the synonym tables.
func (r *Resolver) directColumns(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	matched := false
	for _, cp := range r.colPatterns {
		if ctx.Resolved(cp.column) {
			continue
		}
		var opText, value string
		if m := cp.forward.FindStringSubmatch(n.Lower); m != nil {
			opText, value = m[1], m[2]
		} else if m := cp.reversed.FindStringSubmatch(n.Lower); m != nil {
			opText, value = m[1], m[2]
		} else {
			continue
		}
		op, ok := canonicalOp(opText)
		if !ok {
			op = intent.OpEq
		}
		ctx.AddCondition(intent.Condition{
			Field: cp.column,
			Op:    op,
			Value: intent.Coerce(value, true),
		})
		matched = true
	}
	return matched, nil
}

func buildColumnPatterns(reg *schema.Registry) []columnPatterns {
	ops := symOpPattern + `|` + wordOpPattern
	var out []columnPatterns
	for _, c := range reg.Columns {
		if c.Kind != schema.KindNumeric {
			continue
		}
		name := regexp.QuoteMeta(c.Name)
		out = append(out, columnPatterns{
			column: c.Name,
			forward: regexp.MustCompile(fmt.Sprintf(
				`\b%s\s*(?:is\s+)?(%s)\s*(\d+(?:\.\d+)?)`, name, ops)),
			reversed: regexp.MustCompile(fmt.Sprintf(
				`(%s)\s*(\d+(?:\.\d+)?)\s+%s\b`, ops, name)),
		})
	}
	return out
}
