// Package schema holds the fixed dataset contract the query pipeline
// compiles against: the known columns, their kinds, alias spellings, and
// the vocabulary the validity gate accepts.
//
// The contract is authored in CUE (schema.cue, embedded) and compiled into
// a Registry at startup. A broken contract is a programmer error and fails
// the process immediately rather than producing wrong queries later.
package schema

// Kind classifies a column's value domain. Conditions against numeric
// columns coerce their extracted value to a number; text columns compare
// case-insensitively.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindText    Kind = "text"
)

// Column describes one column of the dataset.
type Column struct {
	Name    string   `json:"name"`
	Kind    Kind     `json:"kind"`
	Aliases []string `json:"aliases"`
}

// Registry is the compiled dataset contract.
type Registry struct {
	Table      string
	Identifier string
	Columns    []Column

	// Categories maps canonical category labels to their synonym phrases.
	Categories map[string][]string

	// Vocabulary lists the whole words the validity gate accepts.
	Vocabulary []string

	// Suggestions is the canned example set returned on rejection.
	Suggestions []string

	byName  map[string]*Column
	byAlias map[string]*Column
}

// Lookup resolves a column name or alias to its column. The match is
// case-insensitive; callers pass already-lowercased input.
func (r *Registry) Lookup(nameOrAlias string) (*Column, bool) {
	if c, ok := r.byName[nameOrAlias]; ok {
		return c, true
	}
	c, ok := r.byAlias[nameOrAlias]
	return c, ok
}

// Known reports whether the name or alias resolves to a column.
func (r *Registry) Known(nameOrAlias string) bool {
	_, ok := r.Lookup(nameOrAlias)
	return ok
}

// Kind returns the kind of a column, resolving aliases. Unknown columns
// report KindText so a caller that failed to gate on Known still produces
// a quoted comparison rather than an injectable bare literal.
func (r *Registry) Kind(nameOrAlias string) Kind {
	if c, ok := r.Lookup(nameOrAlias); ok {
		return c.Kind
	}
	return KindText
}

// index builds the lookup maps. Called once by Compile.
func (r *Registry) index() {
	r.byName = make(map[string]*Column, len(r.Columns))
	r.byAlias = make(map[string]*Column)
	for i := range r.Columns {
		c := &r.Columns[i]
		r.byName[c.Name] = c
		for _, a := range c.Aliases {
			r.byAlias[a] = c
		}
	}
}
