package resolve

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tabletalk/tabletalk/internal/intent"
)

var (
	reIDLookup = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:customer[\s_]?id|customerid|id)\s*(?:is|=|:|#)?\s*(\d+)\b`),
		regexp.MustCompile(`\b(?:customer|client|user|record)\s+(?:number\s+|#\s*)?(\d+)\b`),
	}
	reSortBy = regexp.MustCompile(
		`\b(?:sort|order|sorted|ordered)(?:ed|ing)?\s+by\s+([\w\s,]+?)(?:\s+(asc|desc|ascending|descending))?(?:\s+limit|$)`)
	reRank = regexp.MustCompile(
		`\b(top|bottom|first|last)\s+(\d+)(?:\s+(?:most|least|highest|lowest|best|worst))?\s*([\w\s]*?)(?:\s+where|\s+with|\s+limit|$)`)
	reLimit     = regexp.MustCompile(`\blimit\s+(\d+)\b`)
	reRowsCount = regexp.MustCompile(`\b(\d+)\s+(?:customers|clients|users|records|rows|results|entries)\b`)
)

// metricNouns map the role nouns of ranked listings to the column they
// rank by.
var metricNouns = map[string]string{
	"spender": "spending_score", "spenders": "spending_score",
	"earner": "annual_income_k", "earners": "annual_income_k",
	"saver": "estimated_savings_k", "savers": "estimated_savings_k",
}

// identifierLookup recognizes single-record fetches by id. The lookup is
// an equality on the identifier column with the row cap cleared: an id
// names at most one row and a cap would only obscure that.
func (r *Resolver) identifierLookup(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	id := r.reg.Identifier
	if ctx.Resolved(id) {
		return false, nil
	}
	for _, re := range reIDLookup {
		m := re.FindStringSubmatch(n.Lower)
		if m == nil {
			continue
		}
		ctx.AddCondition(intent.Condition{
			Field: id,
			Op:    intent.OpEq,
			Value: intent.Coerce(m[1], true),
		})
		ctx.Intent.ClearLimit()
		return true, nil
	}
	return false, nil
}

// ordering handles explicit "sort/order by col [desc]" plus the ranked
// listing shapes: "top 10 spenders", "bottom 5 by income", "last 3".
// Top and highest imply descending; bottom and lowest ascending; first
// keeps the identifier order and last reverses it.
func (r *Resolver) ordering(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	if m := reSortBy.FindStringSubmatch(n.Lower); m != nil {
		desc := strings.HasPrefix(m[2], "desc")
		var keys []intent.OrderKey
		for _, raw := range strings.Split(m[1], ",") {
			col, ok := r.findColumn(raw)
			if !ok {
				return false, &UnresolvedFieldError{Field: strings.TrimSpace(raw)}
			}
			keys = append(keys, intent.OrderKey{Field: col.Name, Desc: desc})
		}
		ctx.Intent.OrderBy = keys
		return true, nil
	}

	m := reRank.FindStringSubmatch(n.Lower)
	if m == nil {
		return false, nil
	}
	position, count, tail := m[1], m[2], strings.TrimSpace(m[3])
	limit, err := strconv.Atoi(count)
	if err != nil || limit <= 0 {
		return false, nil
	}
	ctx.Intent.SetLimit(limit)

	metric := r.rankMetric(tail)
	switch {
	case metric != "":
		ctx.Intent.OrderBy = []intent.OrderKey{{Field: metric, Desc: position != "bottom" && position != "last"}}
	case position == "last" || position == "bottom":
		ctx.Intent.OrderBy = []intent.OrderKey{{Field: r.reg.Identifier, Desc: true}}
	}
	return true, nil
}

// rankMetric resolves the tail of a ranked listing to the column it
// ranks by: a role noun ("spenders"), a trailing "by X", or a direct
// column mention. An empty result means rank by position only.
func (r *Resolver) rankMetric(tail string) string {
	tail = strings.TrimPrefix(tail, "by ")
	for _, w := range strings.Fields(tail) {
		if col, ok := metricNouns[w]; ok {
			return col
		}
	}
	if col, ok := r.findColumn(tail); ok {
		return col.Name
	}
	return ""
}

// limitRule picks up the explicit "limit N" spelling and the "show 10
// customers" shorthand. Ranked listings already claimed their count in
// the ordering group.
func (r *Resolver) limitRule(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	if ctx.Intent.Limit != nil {
		return false, nil
	}
	m := reLimit.FindStringSubmatch(n.Lower)
	if m == nil {
		m = reRowsCount.FindStringSubmatch(n.Lower)
	}
	if m == nil {
		return false, nil
	}
	limit, err := strconv.Atoi(m[1])
	if err != nil || limit <= 0 {
		return false, nil
	}
	ctx.Intent.SetLimit(limit)
	return true, nil
}
