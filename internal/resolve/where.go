package resolve

import (
	"regexp"
	"strings"

	"github.com/tabletalk/tabletalk/internal/intent"
	"github.com/tabletalk/tabletalk/internal/schema"
)

var (
	reWhere       = regexp.MustCompile(`\bwhere\s+(.+)$`)
	reClauseTail  = regexp.MustCompile(`\s+(?:group\s+by|order\s+by|sort\s+by|limit)\s+.*$`)
	reBetweenPair = regexp.MustCompile(`between\s+(\d+(?:\.\d+)?)\s+and\s+(\d+(?:\.\d+)?)`)
	reBetweenCond = regexp.MustCompile(`^(.+?)\s+(?:aged\s+|is\s+)?between\s+(\d+(?:\.\d+)?)\.\.(\d+(?:\.\d+)?)$`)
	reNullCond    = regexp.MustCompile(`^(.+?)\s+is\s+(not\s+)?(?:null|none|set)$`)
	reSymCond     = regexp.MustCompile(`^(.*?)\s*(` + symOpPattern + `)\s*(.+)$`)
	reSplitAnd    = regexp.MustCompile(`\s+and\s+`)
	reSplitOr     = regexp.MustCompile(`\s+or\s+`)
)

// explicitWhere splits the text at the literal word "where" and parses
// everything after it as a condition tree. This group always outranks the
// field heuristics: fields it claims are marked resolved so no heuristic
// appends a second, conflicting predicate.
func (r *Resolver) explicitWhere(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	m := reWhere.FindStringSubmatch(n.Lower)
	if m == nil {
		return false, nil
	}
	frag := reClauseTail.ReplaceAllString(m[1], "")
	pred, err := r.parseFragment(frag)
	if err != nil {
		return false, err
	}
	if pred == nil {
		return false, nil
	}
	ctx.AddCondition(pred)
	return true, nil
}

// parseFragment decomposes a natural-language condition fragment into a
// predicate tree. Conjunctions and disjunctions split recursively with
// each side parenthesized. A fragment that resists decomposition falls
// back to FragmentMatch: a deliberate permissive safety net, never a
// statement-text injection.
func (r *Resolver) parseFragment(frag string) (intent.Predicate, error) {
	frag = strings.TrimSpace(frag)
	if frag == "" {
		return nil, nil
	}

	// Protect "between X and Y" so the conjunction split below cannot
	// tear the range apart.
	frag = reBetweenPair.ReplaceAllString(frag, "between $1..$2")

	if parts := reSplitAnd.Split(frag, -1); len(parts) > 1 {
		return r.parseJunction(parts, false)
	}
	if parts := reSplitOr.Split(frag, -1); len(parts) > 1 {
		return r.parseJunction(parts, true)
	}
	return r.parseSimple(frag)
}

func (r *Resolver) parseJunction(parts []string, disjunction bool) (intent.Predicate, error) {
	preds := make([]intent.Predicate, 0, len(parts))
	for _, part := range parts {
		p, err := r.parseFragment(part)
		if err != nil {
			return nil, err
		}
		if p != nil {
			preds = append(preds, p)
		}
	}
	if len(preds) == 1 {
		return preds[0], nil
	}
	if disjunction {
		return intent.Or{Preds: preds}, nil
	}
	return intent.And{Preds: preds}, nil
}

// parseSimple parses one atomic condition: a protected BETWEEN, a null
// check, a symbolic comparison, or a word-alias comparison.
func (r *Resolver) parseSimple(frag string) (intent.Predicate, error) {
	if m := reBetweenCond.FindStringSubmatch(frag); m != nil {
		col, err := r.resolveField(m[1])
		if err != nil {
			return nil, err
		}
		low, high := orderBounds(m[2], m[3])
		return intent.Condition{
			Field: col.Name,
			Op:    intent.OpBetween,
			Value: intent.Coerce(low, true),
			High:  intent.Coerce(high, true),
		}, nil
	}

	if m := reNullCond.FindStringSubmatch(frag); m != nil {
		col, err := r.resolveField(m[1])
		if err != nil {
			return nil, err
		}
		op := intent.OpIsNull
		if m[2] != "" || strings.HasSuffix(frag, "set") {
			op = intent.OpIsNotNull
		}
		return intent.Condition{Field: col.Name, Op: op, Value: intent.Null{}}, nil
	}

	if m := reSymCond.FindStringSubmatch(frag); m != nil && strings.TrimSpace(m[1]) != "" {
		op, _ := canonicalOp(m[2])
		return r.buildCondition(m[1], op, m[3])
	}

	// Word-alias comparison, longest phrase first so "greater than or
	// equal to" is not consumed as "greater than".
	paddedFrag := padded(frag)
	for _, a := range opAliases {
		if len(strings.Fields(a.phrase)) == 0 || !strings.Contains(paddedFrag, padded(a.phrase)) {
			continue
		}
		idx := strings.Index(paddedFrag, padded(a.phrase))
		left := strings.TrimSpace(paddedFrag[:idx])
		right := strings.TrimSpace(paddedFrag[idx+len(padded(a.phrase)):])
		if right == "" {
			continue
		}
		if left == "" {
			// "older than 60" names no field but can only mean age.
			if a.phrase == "older than" || a.phrase == "younger than" {
				return r.buildCondition("age", a.op, right)
			}
			continue
		}
		return r.buildCondition(left, a.op, right)
	}

	// Malformed fragment: recovered, not surfaced as an error.
	return intent.FragmentMatch{Fragment: frag}, nil
}

// buildCondition canonicalizes one (field, operator, value) triple,
// coercing the value to the column's declared kind with a fallback to
// string comparison, and folding case for text-column matches.
func (r *Resolver) buildCondition(fieldPart string, op intent.Operator, valuePart string) (intent.Predicate, error) {
	col, err := r.resolveField(fieldPart)
	if err != nil {
		return nil, err
	}

	raw := strings.Trim(strings.TrimSpace(valuePart), `'" `)
	if col.Kind == schema.KindText {
		if op.Comparison() {
			// Ordering against a text column degrades to a substring
			// match; "category over luxury" has no sensible ordering.
			op = intent.OpLike
		}
		fold := op == intent.OpEq || op == intent.OpLike || op == intent.OpNotLike
		return intent.Condition{Field: col.Name, Op: op, Value: intent.Text(raw), FoldCase: fold}, nil
	}

	return intent.Condition{Field: col.Name, Op: op, Value: intent.Coerce(raw, true)}, nil
}

// resolveField maps the textual field part of a condition to a contract
// column. The whole part is tried first, then progressively shorter
// suffixes, so "customers whose annual income" resolves via the
// "annual income" alias. Unknown fields are rejected.
func (r *Resolver) resolveField(fieldPart string) (*schema.Column, error) {
	part := strings.ToLower(strings.TrimSpace(fieldPart))
	part = strings.Trim(part, `'" `)

	words := strings.Fields(part)
	for start := 0; start < len(words); start++ {
		candidate := strings.Join(words[start:], " ")
		if col, ok := r.reg.Lookup(candidate); ok {
			return col, nil
		}
		if col, ok := r.reg.Lookup(strings.ReplaceAll(candidate, " ", "_")); ok {
			return col, nil
		}
	}

	field := part
	if len(words) > 0 {
		field = words[len(words)-1]
	}
	return nil, &UnresolvedFieldError{Field: field}
}

// orderBounds normalizes range bounds so low <= high regardless of the
// order they appeared in the text.
func orderBounds(a, b string) (string, string) {
	fa := intent.Coerce(a, true)
	fb := intent.Coerce(b, true)
	na, aOK := fa.(intent.Number)
	nb, bOK := fb.(intent.Number)
	if aOK && bOK && na > nb {
		return b, a
	}
	return a, b
}
