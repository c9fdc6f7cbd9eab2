package resolve

import (
	"regexp"
	"strings"

	"github.com/tabletalk/tabletalk/internal/intent"
	"github.com/tabletalk/tabletalk/internal/schema"
)

var (
	reSelectList = regexp.MustCompile(
		`\b(?:show\s+me|show|list|display|get|give\s+me|customer\s+list)\s+(?:the\s+)?(?:list\s+of\s+)?(?:all\s+)?(.*?)(?:\s+where|\s+with|\s+group\s+by|\s+order\s+by|\s+sort\s+by|\s+limit|$)`)
	reSelectSplit = regexp.MustCompile(`\s*,\s*|\s+and\s+`)
)

// selectList narrows the projection when the request explicitly
// enumerates column names: "show age and income of customers" selects
// just those two. Each enumerated part must be a direct column or alias
// mention once stop words and dataset nouns are stripped; a longer
// phrase that merely contains a column word ("high spending customers")
// is a filter, not an enumeration, and leaves the full projection in
// place. A field already claimed as a predicate by an earlier group is
// likewise a filter mention, not a projection request.
func (r *Resolver) selectList(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	if ctx.Intent.Aggregate || len(ctx.Intent.Select) > 0 {
		return false, nil
	}
	m := reSelectList.FindStringSubmatch(n.Lower)
	if m == nil {
		return false, nil
	}

	var cols []string
	seen := make(map[string]bool)
	for _, part := range reSelectSplit.Split(m[1], -1) {
		part = stripStopWords(strings.TrimSpace(part))
		part = trimEntityNouns(part)
		if part == "" {
			continue
		}
		col, ok := r.lookupExact(part)
		if !ok {
			continue
		}
		if ctx.Resolved(col.Name) || seen[col.Name] {
			continue
		}
		seen[col.Name] = true
		cols = append(cols, col.Name)
	}
	if len(cols) == 0 {
		return false, nil
	}
	ctx.Intent.Select = cols
	return true, nil
}

// lookupExact resolves a whole phrase as one column or alias spelling.
// Unlike findColumn it never scans windows inside a longer phrase.
func (r *Resolver) lookupExact(phrase string) (*schema.Column, bool) {
	if col, ok := r.reg.Lookup(phrase); ok {
		return col, true
	}
	col, ok := r.reg.Lookup(strings.ReplaceAll(phrase, " ", "_"))
	return col, ok
}

// trimEntityNouns drops dataset nouns from a projection phrase, so
// "income customers" resolves by its column words alone.
func trimEntityNouns(s string) string {
	var kept []string
	for _, w := range strings.Fields(s) {
		if !entityNouns[strings.Trim(w, "'\".,;:!?")] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
