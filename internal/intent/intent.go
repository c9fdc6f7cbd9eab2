// Package intent defines the typed representation of what a request is
// asking for, built up by the rule cascade and rendered by the assembler.
package intent

// OrderKey is one ORDER BY term.
type OrderKey struct {
	Field string
	Desc  bool
}

// Intent is the mutable accumulator one resolution pass builds from the
// request text. A fresh Intent is created per request and never shared.
type Intent struct {
	// Select holds the SELECT expressions. Empty means wildcard.
	Select []string

	// From is the dataset table. Fixed unless a count phrase names an
	// entity, in which case the resolver still validates it against the
	// contract before accepting it.
	From string

	// Where is the ordered condition list. Conditions from different rule
	// groups are ANDed; an explicit WHERE clause contributes a single
	// compound predicate.
	Where []Predicate

	GroupBy []string
	Having  []string
	OrderBy []OrderKey

	// Limit caps the row count. Nil means the assembler's default applies
	// (or no cap at all for aggregates and id lookups).
	Limit *int

	// AggregateLabel names the scalar a metric envelope reports
	// ("Total Female Customers"). Set only with an aggregate Select.
	AggregateLabel string

	// Aggregate marks the Select list as a single aggregate expression.
	// Aggregates suppress default ordering and limits: ORDER BY on
	// non-grouped columns under an aggregate is invalid.
	Aggregate bool
}

// New returns an Intent against the given table with wildcard selection.
func New(table string) *Intent {
	return &Intent{From: table}
}

// SetLimit sets the row cap.
func (in *Intent) SetLimit(n int) {
	in.Limit = &n
}

// ClearLimit removes any row cap, including the assembler default.
// Used by the identifier fast path, where a unique lookup needs no cap.
func (in *Intent) ClearLimit() {
	n := 0
	in.Limit = &n
}

// ResolutionContext threads the Intent and the set of already-resolved
// fields through the rule groups. Each rule group checks Resolved before
// adding a predicate so later, lower-precedence groups never append a
// second condition on a field an earlier group set.
type ResolutionContext struct {
	Intent *Intent

	// Done short-circuits the cascade. The count fast path sets it.
	Done bool

	resolved map[string]struct{}
}

// NewContext returns a context around a fresh Intent for the table.
func NewContext(table string) *ResolutionContext {
	return &ResolutionContext{
		Intent:   New(table),
		resolved: make(map[string]struct{}),
	}
}

// Resolve marks a field as handled by the current rule group.
func (c *ResolutionContext) Resolve(field string) {
	c.resolved[field] = struct{}{}
}

// Resolved reports whether a higher-precedence group already handled the
// field.
func (c *ResolutionContext) Resolved(field string) bool {
	_, ok := c.resolved[field]
	return ok
}

// AddCondition appends a predicate and marks its fields resolved.
func (c *ResolutionContext) AddCondition(p Predicate) {
	c.Intent.Where = append(c.Intent.Where, p)
	for _, f := range Fields(p) {
		c.Resolve(f)
	}
}
