package resolve

import "fmt"

// RejectError reports input the gate refused: empty, non-alphanumeric, or
// matching none of the contract vocabulary. It carries the canned example
// suggestions the envelope surfaces to the caller.
type RejectError struct {
	Message     string
	Suggestions []string
}

func (e *RejectError) Error() string {
	return e.Message
}

// UnresolvedFieldError reports a condition whose field is not part of the
// dataset contract. Unknown fields are rejected rather than passed through
// as raw identifiers.
type UnresolvedFieldError struct {
	Field string
}

func (e *UnresolvedFieldError) Error() string {
	return fmt.Sprintf("unresolved field %q: not part of the dataset", e.Field)
}
