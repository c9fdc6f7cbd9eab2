package intent

// Operator is one of the canonical comparison operators every extracted
// alias normalizes to.
type Operator string

const (
	OpEq        Operator = "="
	OpNe        Operator = "!="
	OpLt        Operator = "<"
	OpLe        Operator = "<="
	OpGt        Operator = ">"
	OpGe        Operator = ">="
	OpLike      Operator = "LIKE"
	OpNotLike   Operator = "NOT LIKE"
	OpIsNull    Operator = "IS NULL"
	OpIsNotNull Operator = "IS NOT NULL"
	OpBetween   Operator = "BETWEEN"
)

// Comparison reports whether the operator is an ordering comparison.
// Text columns reject ordering comparisons and degrade to LIKE.
func (o Operator) Comparison() bool {
	switch o {
	case OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

// Predicate is a sealed interface over WHERE-clause nodes.
//
// Predicate types:
//   - Condition: one canonical (field, operator, value) comparison
//   - And, Or: boolean combinations, each side parenthesized
//   - FragmentMatch: the safety-net for WHERE fragments that could not be
//     decomposed (see resolve.Resolver)
type Predicate interface {
	predicateNode()
}

// Condition is one canonicalized predicate contributing to a WHERE clause.
//
// High is only set for BETWEEN, where Value and High hold the normalized
// low and high bounds (low <= high regardless of input order). FoldCase
// lower-cases both sides of the comparison; it is set for equality and
// LIKE against text columns.
type Condition struct {
	Field    string
	Op       Operator
	Value    Value
	High     Value
	FoldCase bool
}

func (Condition) predicateNode() {}

// And is a conjunction. Empty means always true.
type And struct {
	Preds []Predicate
}

func (And) predicateNode() {}

// Or is a disjunction.
type Or struct {
	Preds []Predicate
}

func (Or) predicateNode() {}

// FragmentMatch preserves a WHERE fragment that no rule could decompose.
// It renders as a case-insensitive substring match with the fragment bound
// on both sides, so free text never reaches statement syntax. A fragment
// trivially contains itself, making this a permissive pass-through rather
// than silent data loss.
type FragmentMatch struct {
	Fragment string
}

func (FragmentMatch) predicateNode() {}

// Fields returns every column name referenced by the predicate tree.
func Fields(p Predicate) []string {
	var out []string
	walk(p, func(c Condition) {
		out = append(out, c.Field)
	})
	return out
}

func walk(p Predicate, fn func(Condition)) {
	switch node := p.(type) {
	case Condition:
		fn(node)
	case *Condition:
		fn(*node)
	case And:
		for _, child := range node.Preds {
			walk(child, fn)
		}
	case *And:
		for _, child := range node.Preds {
			walk(child, fn)
		}
	case Or:
		for _, child := range node.Preds {
			walk(child, fn)
		}
	case *Or:
		for _, child := range node.Preds {
			walk(child, fn)
		}
	}
}
