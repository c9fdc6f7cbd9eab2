package resolve

import (
	"regexp"
	"strings"

	"github.com/tabletalk/tabletalk/internal/intent"
)

var (
	reCount = regexp.MustCompile(
		`(?:^|\s)(count|number of|how many|total(?: number of)?)\s+(?:the\s+)?(?:all\s+)?(.*)$`)
	reCountConnective = regexp.MustCompile(
		`^(?:who are|that are|that have|who have|with|whose|where|are|is|have|aged)\s+`)
)

// entityNouns are the spellings that name the dataset itself in a count
// phrase. Anything else after the count verb is an unknown table and is
// rejected: the contract is fixed to one dataset.
var entityNouns = map[string]bool{
	"customer": true, "customers": true,
	"client": true, "clients": true,
	"user": true, "users": true,
	"people": true, "person": true, "persons": true,
	"record": true, "records": true, "row": true, "rows": true, "entries": true,
}

// countFastPath turns "count/number of/how many/total ..." phrases into a
// scalar-aggregate Intent and short-circuits the rest of the cascade.
func (r *Resolver) countFastPath(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	m := reCount.FindStringSubmatch(n.Lower)
	if m == nil {
		return false, nil
	}
	rest := strings.TrimSpace(m[2])
	if m[1] == "total" && strings.HasPrefix(rest, "of ") {
		// "total of X" is a SUM aggregate, not a row count.
		return false, nil
	}
	// A target naming a column and no entity noun ("total income") is an
	// aggregate over that column; the aggregate group owns it.
	if !containsEntityNoun(rest) {
		if _, ok := r.findColumn(rest); ok {
			return false, nil
		}
	}

	in := ctx.Intent
	in.Select = []string{"COUNT(*) AS count"}
	in.Aggregate = true
	in.AggregateLabel = "Total Customers"

	// Gender sub-phrases refine both the predicate and the label.
	if gender, ok := genderTerm(n.Lower); ok {
		in.AggregateLabel = "Total " + gender + " Customers"
		ctx.AddCondition(intent.Condition{
			Field:    "gender",
			Op:       intent.OpEq,
			Value:    intent.Text(gender),
			FoldCase: true,
		})
	}

	// Walk the words after the count verb: skip gender words and entity
	// nouns; the first unknown noun before any connective is a foreign
	// table name and rejects the request.
	trailing := ""
	words := strings.Fields(rest)
	for i, w := range words {
		w = strings.Trim(w, "'\".,;:!?")
		if _, isGender := genderTerm(w); isGender || entityNouns[w] {
			continue
		}
		trailing = strings.Join(words[i:], " ")
		break
	}

	// Trailing free text is parsed as a condition fragment, never spliced
	// into the statement.
	if trailing != "" {
		frag := reCountConnective.ReplaceAllString(trailing, "")
		if !reCountConnective.MatchString(trailing) && !startsWithCondition(r, frag) {
			return false, &UnresolvedFieldError{Field: strings.Fields(trailing)[0]}
		}
		pred, err := r.parseFragment(frag)
		if err != nil {
			return false, err
		}
		if pred != nil {
			ctx.AddCondition(pred)
		}
	}

	ctx.Done = true
	return true, nil
}

// containsEntityNoun reports whether any word of the phrase names the
// dataset itself.
func containsEntityNoun(s string) bool {
	for _, w := range strings.Fields(s) {
		if entityNouns[strings.Trim(w, "'\".,;:!?")] {
			return true
		}
	}
	return false
}

// startsWithCondition reports whether the fragment's leading words resolve
// to a contract column, allowing connective-free phrasings like
// "count customers age > 30".
func startsWithCondition(r *Resolver, frag string) bool {
	words := strings.Fields(frag)
	for n := len(words); n >= 1; n-- {
		candidate := strings.Join(words[:n], " ")
		if r.reg.Known(candidate) || r.reg.Known(strings.ReplaceAll(candidate, " ", "_")) {
			return true
		}
	}
	return false
}

// genderTerm maps gender words (singular and plural) to the canonical
// label, reporting whether the text mentioned one at all.
func genderTerm(s string) (string, bool) {
	for _, w := range []string{"female", "females", "woman", "women", "girl", "girls"} {
		if containsWord(s, w) || s == w {
			return "Female", true
		}
	}
	for _, w := range []string{"male", "males", "man", "men", "boy", "boys"} {
		if containsWord(s, w) || s == w {
			return "Male", true
		}
	}
	return "", false
}
