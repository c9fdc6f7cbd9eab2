package resolve

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tabletalk/tabletalk/internal/intent"
	"github.com/tabletalk/tabletalk/internal/schema"
)

// aggVerbs maps spoken aggregate verbs to SQL functions. Multi-word
// spellings come first so "total of" is never consumed as a bare "total".
// Bare "total" reaches this group only when the count fast path declined
// the phrase because its target named a column ("total income").
var aggVerbs = []struct {
	term  string
	fn    string
	label string
}{
	{"total of", "SUM", "Total"},
	{"total", "SUM", "Total"},
	{"average", "AVG", "Average"},
	{"avg", "AVG", "Average"},
	{"mean", "AVG", "Average"},
	{"sum", "SUM", "Total"},
	{"maximum", "MAX", "Maximum"},
	{"max", "MAX", "Maximum"},
	{"highest", "MAX", "Highest"},
	{"minimum", "MIN", "Minimum"},
	{"min", "MIN", "Minimum"},
	{"lowest", "MIN", "Lowest"},
}

var (
	reAggTail = regexp.MustCompile(`\s+(?:where|with|group\s+by|order\s+by|sort\s+by|sorted\s+by|limit|by)\s+.*$`)
	reRankN   = regexp.MustCompile(`\b(?:top|bottom|first|last)\s+\d+\b`)
)

// aggregate recognizes "average income", "max age", "total of spending
// score" and the like, producing a single aggregate select expression.
// Ranked listings ("top 10 highest spenders") are ordering, not
// aggregation, and are left for the ordering group. A verb whose target
// names no contract column is likewise left alone so later groups can
// make sense of the text.
func (r *Resolver) aggregate(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	if ctx.Intent.Aggregate || reRankN.MatchString(n.Lower) {
		return false, nil
	}

	text := padded(n.Lower)
	for _, verb := range aggVerbs {
		idx := strings.Index(text, " "+verb.term+" ")
		if idx < 0 {
			continue
		}
		target := strings.TrimSpace(text[idx+len(verb.term)+2:])
		target = reAggTail.ReplaceAllString(target, "")
		target = strings.TrimPrefix(target, "of ")
		target = strings.TrimPrefix(target, "the ")
		target = strings.TrimSpace(target)

		if entityNouns[target] {
			ctx.Intent.Select = []string{"COUNT(*) AS count"}
			ctx.Intent.Aggregate = true
			ctx.Intent.AggregateLabel = "Total Customers"
			return true, nil
		}

		col, ok := r.findColumn(target)
		if !ok {
			continue
		}
		alias := strings.ToLower(verb.fn) + "_" + col.Name
		ctx.Intent.Select = []string{fmt.Sprintf("%s(%s) AS %s", verb.fn, col.Name, alias)}
		ctx.Intent.Aggregate = true
		ctx.Intent.AggregateLabel = verb.label + " " + displayName(col.Name)
		return true, nil
	}
	return false, nil
}

var (
	reGroupBy    = regexp.MustCompile(`\b(?:group(?:ed)?|segment(?:ed)?|split|break(?:s)?\s+down|broken\s+down)\s+(?:down\s+)?by\s+([\w\s,]+?)(?:\s+having|\s+order\s+by|\s+sort\s+by|\s+limit|$)`)
	reTrailingBy = regexp.MustCompile(`\bby\s+([a-z][\w\s]*?)$`)
	reSortTail   = regexp.MustCompile(`\b(?:sort|sorted|order|ordered)\s+by\s+[\w\s,]*$`)
)

// grouping handles the explicit "group by X" spelling plus the trailing
// "by X" shorthand of aggregate phrasings ("average income by gender").
// Group columns are prepended to the select list; a grouping with no
// aggregate yet becomes a per-group count.
func (r *Resolver) grouping(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	var rawCols []string
	if m := reGroupBy.FindStringSubmatch(n.Lower); m != nil {
		rawCols = strings.Split(m[1], ",")
	} else if m := reTrailingBy.FindStringSubmatch(n.Lower); m != nil && !reSortTail.MatchString(n.Lower) && !reRankN.MatchString(n.Lower) {
		// Ranked listings own their trailing "by X" (it names the sort
		// metric, not a group).
		rawCols = []string{m[1]}
	}
	if len(rawCols) == 0 {
		return false, nil
	}

	var groupCols []string
	for _, raw := range rawCols {
		col, ok := r.findColumn(strings.TrimSpace(raw))
		if !ok {
			return false, &UnresolvedFieldError{Field: strings.TrimSpace(raw)}
		}
		groupCols = append(groupCols, col.Name)
	}

	in := ctx.Intent
	if !in.Aggregate {
		in.Select = []string{"COUNT(*) AS count"}
		in.Aggregate = true
	}
	in.Select = append(append([]string{}, groupCols...), in.Select...)
	in.GroupBy = groupCols
	in.AggregateLabel = ""
	return true, nil
}

// findColumn scans a phrase for the longest window of words naming a
// contract column or one of its aliases. Unlike resolveField it reports
// a miss instead of an error; callers decide whether a miss matters.
func (r *Resolver) findColumn(phrase string) (*schema.Column, bool) {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(phrase)))
	for size := len(words); size >= 1; size-- {
		for start := 0; start+size <= len(words); start++ {
			candidate := strings.Join(words[start:start+size], " ")
			if col, ok := r.reg.Lookup(candidate); ok {
				return col, true
			}
			if col, ok := r.reg.Lookup(strings.ReplaceAll(candidate, " ", "_")); ok {
				return col, true
			}
		}
	}
	return nil, false
}

// displayName renders a column name for envelope labels: underscores and
// the thousands suffix become readable words.
func displayName(col string) string {
	name := strings.TrimSuffix(col, "_k")
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
