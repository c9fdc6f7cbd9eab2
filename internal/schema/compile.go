package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaCUE []byte

// CompileError reports a problem with the dataset contract itself.
type CompileError struct {
	Field   string
	Message string
}

func (e *CompileError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("schema: %s", e.Message)
}

// Compile parses the embedded CUE contract into a Registry.
// Uses the CUE SDK's Go API directly (not CLI subprocess).
func Compile() (*Registry, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(schemaCUE)
	if err := v.Err(); err != nil {
		return nil, &CompileError{Message: err.Error()}
	}
	return compileDataset(v.LookupPath(cue.ParsePath("dataset")))
}

func compileDataset(v cue.Value) (*Registry, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: "dataset", Message: "dataset struct is required"}
	}

	var raw struct {
		Table       string              `json:"table"`
		Identifier  string              `json:"identifier"`
		Columns     []Column            `json:"columns"`
		Categories  map[string][]string `json:"categories"`
		Vocabulary  []string            `json:"vocabulary"`
		Suggestions []string            `json:"suggestions"`
	}
	if err := v.Decode(&raw); err != nil {
		return nil, &CompileError{Field: "dataset", Message: err.Error()}
	}

	r := &Registry{
		Table:       raw.Table,
		Identifier:  raw.Identifier,
		Columns:     raw.Columns,
		Categories:  raw.Categories,
		Vocabulary:  raw.Vocabulary,
		Suggestions: raw.Suggestions,
	}
	if err := validate(r); err != nil {
		return nil, err
	}
	r.index()
	return r, nil
}

func validate(r *Registry) error {
	if r.Table == "" {
		return &CompileError{Field: "table", Message: "table name is required"}
	}
	if len(r.Columns) == 0 {
		return &CompileError{Field: "columns", Message: "at least one column is required"}
	}
	seen := make(map[string]bool, len(r.Columns))
	identifierFound := false
	for _, c := range r.Columns {
		if c.Name == "" {
			return &CompileError{Field: "columns", Message: "column name must be non-empty"}
		}
		if seen[c.Name] {
			return &CompileError{Field: "columns", Message: fmt.Sprintf("duplicate column %q", c.Name)}
		}
		seen[c.Name] = true
		if c.Kind != KindNumeric && c.Kind != KindText {
			return &CompileError{Field: c.Name, Message: fmt.Sprintf("unknown kind %q", c.Kind)}
		}
		if c.Name == r.Identifier {
			identifierFound = true
		}
	}
	if !identifierFound {
		return &CompileError{Field: "identifier", Message: fmt.Sprintf("identifier %q is not a declared column", r.Identifier)}
	}
	if len(r.Suggestions) == 0 {
		return &CompileError{Field: "suggestions", Message: "at least one example suggestion is required"}
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// Default returns the compiled embedded contract. The first call compiles;
// subsequent calls return the cached Registry.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Compile()
	})
	return defaultReg, defaultErr
}
