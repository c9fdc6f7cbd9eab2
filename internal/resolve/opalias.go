package resolve

import (
	"sort"
	"strings"

	"github.com/tabletalk/tabletalk/internal/intent"
)

// opAlias maps one natural-language spelling to its canonical operator.
type opAlias struct {
	phrase string
	op     intent.Operator
}

// opAliases holds every recognized operator spelling. Scans iterate in
// longest-phrase-first order so "greater than or equal to" wins over
// "greater than", and "greater than" over ">".
var opAliases = func() []opAlias {
	table := map[intent.Operator][]string{
		intent.OpGe:      {">=", "greater than or equal to", "at least", "minimum of", "minimum", "or more", "and above", "and higher"},
		intent.OpLe:      {"<=", "less than or equal to", "at most", "maximum of", "maximum", "or less", "and below", "and lower"},
		intent.OpNe:      {"!=", "<>", "not equal to", "not equal", "does not equal", "is not", "different from"},
		intent.OpGt:      {">", "greater than", "more than", "over", "older than", "above", "higher than", "exceeds"},
		intent.OpLt:      {"<", "less than", "fewer than", "under", "younger than", "below", "lower than"},
		intent.OpEq:      {"=", ":", "equals", "equal to", "exactly", "same as", "is"},
		intent.OpLike:    {"contains", "like", "matching", "includes", "that contains"},
		intent.OpNotLike: {"does not contain", "not containing", "without", "excluding"},
	}
	var all []opAlias
	for op, phrases := range table {
		for _, p := range phrases {
			all = append(all, opAlias{phrase: p, op: op})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if len(all[i].phrase) != len(all[j].phrase) {
			return len(all[i].phrase) > len(all[j].phrase)
		}
		return all[i].phrase < all[j].phrase
	})
	return all
}()

// canonicalOp resolves an operator spelling (symbolic or word alias) to
// the canonical set. The lookup is exact after trimming and lowering.
func canonicalOp(alias string) (intent.Operator, bool) {
	alias = strings.TrimSpace(strings.ToLower(alias))
	for _, a := range opAliases {
		if a.phrase == alias {
			return a.op, true
		}
	}
	return "", false
}

// wordOpPattern is the regex alternation of the multi-word operator
// aliases used by the direct column scan and the field heuristics.
// Symbolic operators are matched separately.
const wordOpPattern = `greater than or equal to|less than or equal to|greater than|less than|more than|fewer than|not equal to|not equal|at least|at most|exactly|over|under|above|below|higher than|lower than|older than|younger than|exceeds`

// symOpPattern matches symbolic comparison operators, longest first.
const symOpPattern = `>=|<=|!=|<>|>|<|=`
