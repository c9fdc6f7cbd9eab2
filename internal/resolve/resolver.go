// Package resolve turns free-form request text into a typed Intent.
//
// The resolver runs ordered rule groups over the normalized text. Within a
// group, rules are tried in priority order and the first match wins; a
// matched rule records its fields in the ResolutionContext so later,
// lower-precedence groups skip fields that are already set. No group fails
// on a non-match; it leaves the Intent unchanged and control moves on.
package resolve

import (
	"github.com/tabletalk/tabletalk/internal/intent"
	"github.com/tabletalk/tabletalk/internal/schema"
)

// rule is one pattern extractor. It returns true when it matched and
// patched the context. Rules are pure: all state lives in the context.
type rule func(n Normalized, ctx *intent.ResolutionContext) (bool, error)

// Resolver holds the compiled dataset contract the rules resolve against
// and the per-column scan patterns derived from it.
type Resolver struct {
	reg         *schema.Registry
	colPatterns []columnPatterns
}

// New creates a Resolver for the given contract.
func New(reg *schema.Registry) *Resolver {
	return &Resolver{
		reg:         reg,
		colPatterns: buildColumnPatterns(reg),
	}
}

// Resolve validates the text and folds it through the rule cascade,
// returning the populated Intent. Every request gets a fresh
// ResolutionContext; nothing is shared across calls.
func (r *Resolver) Resolve(text string) (*intent.Intent, error) {
	n := Normalize(text)
	if err := r.Validate(n); err != nil {
		return nil, err
	}

	ctx := intent.NewContext(r.reg.Table)
	for _, group := range r.groups() {
		if ctx.Done {
			break
		}
		for _, rl := range group {
			matched, err := rl(n, ctx)
			if err != nil {
				return nil, err
			}
			if matched {
				break
			}
		}
	}

	r.finish(ctx)
	return ctx.Intent, nil
}

// groups returns the rule groups in required precedence order. The
// explicit WHERE extractor always outranks the heuristics; the count fast
// path short-circuits everything after it.
func (r *Resolver) groups() [][]rule {
	return [][]rule{
		{r.explicitWhere},
		{r.countFastPath},
		{r.directColumns},
		{r.gender},
		{r.age},
		{r.income},
		{r.savings},
		{r.creditScore},
		{r.loyaltyYears},
		{r.spendingScore},
		{r.category},
		{r.ageGroup},
		{r.aggregate},
		{r.grouping},
		{r.identifierLookup, r.ordering},
		{r.limitRule},
		{r.selectList},
	}
}

// finish applies defaults and the condition-normalizer de-duplication
// pass. Plain table intents default to identifier ordering with a row
// cap; aggregates and identifier lookups suppress both.
func (r *Resolver) finish(ctx *intent.ResolutionContext) {
	in := ctx.Intent
	in.Where = dedupe(in.Where)

	if in.Aggregate {
		// Scalar aggregates have nothing to order or page. Grouped
		// aggregates keep a deterministic order over the group columns.
		in.OrderBy = nil
		in.Limit = nil
		for _, g := range in.GroupBy {
			in.OrderBy = append(in.OrderBy, intent.OrderKey{Field: g})
		}
		return
	}
	if len(in.OrderBy) == 0 {
		in.OrderBy = []intent.OrderKey{{Field: r.reg.Identifier}}
	}
	if in.Limit == nil {
		in.SetLimit(defaultRowCap)
	} else if *in.Limit == 0 {
		// ClearLimit marker: identifier fast path wants no cap at all.
		in.Limit = nil
	}
}

// defaultRowCap bounds plain table queries that name no explicit limit.
const defaultRowCap = 1000

// dedupe keeps the first (highest-precedence) top-level condition per
// field and drops later duplicates contributed by overlapping rule
// groups. Compound predicates from the explicit WHERE group are kept
// whole; only bare conditions repeat across groups.
func dedupe(preds []intent.Predicate) []intent.Predicate {
	seen := make(map[string]bool)
	// First pass: record fields claimed by compound predicates, which
	// outrank everything (they only come from the explicit WHERE group).
	for _, p := range preds {
		if _, ok := p.(intent.Condition); ok {
			continue
		}
		for _, f := range intent.Fields(p) {
			seen[f] = true
		}
	}
	out := preds[:0]
	for _, p := range preds {
		if c, ok := p.(intent.Condition); ok {
			if seen[c.Field] {
				continue
			}
			seen[c.Field] = true
		}
		out = append(out, p)
	}
	return out
}
