package resolve

import (
	"strings"
	"unicode"
)

// Validate runs the validity gate. It must run before any extractor so
// unintelligible input produces one uniform rejection instead of an
// accidental wildcard query.
func (r *Resolver) Validate(n Normalized) error {
	if !hasAlphanumeric(n.Original) {
		return &RejectError{
			Message:     "Please enter a valid query",
			Suggestions: r.reg.Suggestions,
		}
	}
	for _, term := range r.reg.Vocabulary {
		if hasAlphanumeric(term) {
			if containsWord(n.Lower, term) {
				return nil
			}
		} else if strings.Contains(n.Lower, term) {
			// Operator symbols match anywhere; "age>30" has no word
			// boundary around ">".
			return nil
		}
	}
	return &RejectError{
		Message:     "Sorry, I didn't understand your query. Here are some examples:",
		Suggestions: r.reg.Suggestions,
	}
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
