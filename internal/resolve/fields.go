package resolve

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tabletalk/tabletalk/internal/intent"
)

// moneyOpPattern extends the shared operator alternation with the bare
// equality spellings the money phrasings use ("income is 48").
const moneyOpPattern = symOpPattern + `|` + wordOpPattern + `|equals|is`

// gender matches whole-word gender mentions and maps them to the
// canonical Male/Female labels.
func (r *Resolver) gender(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	if ctx.Resolved("gender") {
		return false, nil
	}
	gender, ok := genderTerm(n.Lower)
	if !ok {
		return false, nil
	}
	ctx.AddCondition(intent.Condition{
		Field:    "gender",
		Op:       intent.OpEq,
		Value:    intent.Text(gender),
		FoldCase: true,
	})
	return true, nil
}

var (
	reAgeExact = regexp.MustCompile(`\bage\s*(?:is|=|:)\s*(\d+)\b`)
	reAgeRange = []*regexp.Regexp{
		regexp.MustCompile(`\baged?\s+between\s+(\d+)\s+and\s+(\d+)\b`),
		regexp.MustCompile(`\bage\s+(\d+)\s*[-–]\s*(\d+)\b`),
		regexp.MustCompile(`\baged?\s+from\s+(\d+)\s+to\s+(\d+)\b`),
		regexp.MustCompile(`\b(\d+)\s+to\s+(\d+)\s+years?\b`),
	}
	reAgeCompare    = regexp.MustCompile(`\baged?\s*(?:is\s+)?(` + symOpPattern + `|` + wordOpPattern + `)\s*(\d+)\b`)
	reAgeOlder      = regexp.MustCompile(`\b(?:older than|over the age of)\s+(\d+)\b`)
	reAgeYounger    = regexp.MustCompile(`\b(?:younger than|under the age of)\s+(\d+)\b`)
	reAgeStandalone = regexp.MustCompile(`\b(\d+)\s*(?:\+|and above|and older|and up|or more|plus)\b`)
	reAgeStandLow   = regexp.MustCompile(`\b(\d+)\s*(?:and below|and younger|and under|or less)\b`)
	reAgeWords      = regexp.MustCompile(`\b(?:age|aged|old|older|younger)\b`)
)

// ageCohorts maps named cohorts to their age bounds. A nil high bound
// with cmp set means a plain comparison; both bounds set means BETWEEN.
var ageCohorts = []struct {
	terms []string
	op    intent.Operator
	low   float64
	high  float64
}{
	{terms: []string{"senior", "seniors", "elderly", "retired", "pensioner", "pensioners"}, op: intent.OpGe, low: 65},
	{terms: []string{"middle-aged", "middle aged", "middleaged"}, op: intent.OpBetween, low: 40, high: 64},
	{terms: []string{"young adult", "young adults"}, op: intent.OpBetween, low: 18, high: 39},
	{terms: []string{"teen", "teens", "teenager", "teenagers"}, op: intent.OpBetween, low: 13, high: 19},
	{terms: []string{"child", "children", "kid", "kids"}, op: intent.OpLt, low: 13},
}

// age tries exact, range, comparison, and standalone numeric phrasings in
// priority order, then falls back to named cohorts. Cohorts only apply
// when no numeric age condition was found.
func (r *Resolver) age(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	if ctx.Resolved("age") {
		return false, nil
	}
	add := func(c intent.Condition) (bool, error) {
		c.Field = "age"
		ctx.AddCondition(c)
		return true, nil
	}

	if m := reAgeExact.FindStringSubmatch(n.Lower); m != nil {
		return add(intent.Condition{Op: intent.OpEq, Value: intent.Coerce(m[1], true)})
	}
	for _, re := range reAgeRange {
		if m := re.FindStringSubmatch(n.Lower); m != nil {
			low, high := orderBounds(m[1], m[2])
			return add(intent.Condition{Op: intent.OpBetween, Value: intent.Coerce(low, true), High: intent.Coerce(high, true)})
		}
	}
	if m := reAgeCompare.FindStringSubmatch(n.Lower); m != nil {
		op, ok := canonicalOp(m[1])
		if !ok {
			op = intent.OpEq
		}
		return add(intent.Condition{Op: op, Value: intent.Coerce(m[2], true)})
	}
	if m := reAgeOlder.FindStringSubmatch(n.Lower); m != nil {
		return add(intent.Condition{Op: intent.OpGt, Value: intent.Coerce(m[1], true)})
	}
	if m := reAgeYounger.FindStringSubmatch(n.Lower); m != nil {
		return add(intent.Condition{Op: intent.OpLt, Value: intent.Coerce(m[1], true)})
	}
	// Standalone mentions ("25 and above") only bind to age when the
	// text talks about age at all; otherwise "50 or more in savings"
	// would be misread.
	if reAgeWords.MatchString(n.Lower) {
		if m := reAgeStandalone.FindStringSubmatch(n.Lower); m != nil {
			return add(intent.Condition{Op: intent.OpGe, Value: intent.Coerce(m[1], true)})
		}
		if m := reAgeStandLow.FindStringSubmatch(n.Lower); m != nil {
			return add(intent.Condition{Op: intent.OpLe, Value: intent.Coerce(m[1], true)})
		}
	}

	for _, cohort := range ageCohorts {
		for _, term := range cohort.terms {
			if !containsWord(n.Lower, term) {
				continue
			}
			c := intent.Condition{Op: cohort.op, Value: intent.Number(cohort.low)}
			if cohort.op == intent.OpBetween {
				c.High = intent.Number(cohort.high)
			}
			return add(c)
		}
	}
	return false, nil
}

// moneyRule is the shared shape of the income / savings / credit /
// loyalty phrasings: a forward pattern (column words first) and an
// optional reversed one (amount first), with a per-family default
// operator when the phrasing names none.
type moneyRule struct {
	field     string
	forward   *regexp.Regexp
	reversed  *regexp.Regexp
	defaultOp intent.Operator
}

func (r *Resolver) applyMoney(rule moneyRule, n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	if ctx.Resolved(rule.field) {
		return false, nil
	}
	var opText, value string
	if m := rule.forward.FindStringSubmatch(n.Lower); m != nil {
		opText, value = m[1], m[2]
	} else if rule.reversed != nil {
		if m := rule.reversed.FindStringSubmatch(n.Lower); m != nil {
			opText, value = m[1], m[2]
		}
	}
	if value == "" {
		return false, nil
	}
	op := rule.defaultOp
	if parsed, ok := canonicalOp(opText); ok {
		op = parsed
	}
	value = strings.ReplaceAll(value, ",", "")
	ctx.AddCondition(intent.Condition{
		Field: rule.field,
		Op:    op,
		Value: intent.Coerce(value, true),
	})
	return true, nil
}

// The income and savings columns are stored in thousands, so a trailing
// "k" on the amount is unit-preserving and simply dropped: "50k income"
// is annual_income_k >= 50.
var (
	incomeRule = moneyRule{
		field:     "annual_income_k",
		defaultOp: intent.OpGe,
		forward: regexp.MustCompile(
			`\b(?:annual\s+)?(?:income|salary|earnings?)\s*(?:was\s+)?(` + moneyOpPattern + `)?\s*\$?(\d+(?:,\d+)*(?:\.\d+)?)k?\b`),
		reversed: regexp.MustCompile(
			`(` + moneyOpPattern + `)?\s*\$?(\d+(?:,\d+)*(?:\.\d+)?)k?(?:\s*dollars?)?\s*(?:per\s+year|per\s+annum|annual)?\s*(?:in\s+|of\s+)?(?:income|salary)\b`),
	}
	savingsRule = moneyRule{
		field:     "estimated_savings_k",
		defaultOp: intent.OpGe,
		forward: regexp.MustCompile(
			`\b(?:estimated\s+)?savings?\s*(?:of\s+|was\s+)?(` + moneyOpPattern + `)?\s*\$?(\d+(?:,\d+)*(?:\.\d+)?)k?\b`),
		reversed: regexp.MustCompile(
			`(` + moneyOpPattern + `)?\s*\$?(\d+(?:,\d+)*(?:\.\d+)?)k?(?:\s*dollars?)?\s*(?:\+|and up|or more|plus)?\s*(?:in\s+|of\s+)(?:estimated\s+)?savings\b`),
	}
	creditRule = moneyRule{
		field:     "credit_score",
		defaultOp: intent.OpEq,
		forward: regexp.MustCompile(
			`\bcredit(?:[\s_-]?(?:score|rating))?\s*(` + moneyOpPattern + `)?\s*(\d+)\b`),
	}
	loyaltyRule = moneyRule{
		field:     "loyalty_years",
		defaultOp: intent.OpGe,
		forward: regexp.MustCompile(
			`\bloyalty[\s_]?years?\s*(` + moneyOpPattern + `)?\s*(\d+)\b`),
		reversed: regexp.MustCompile(
			`(` + moneyOpPattern + `)?\s*(\d+)\+?\s*(?:year|yr)s?\s*(?:of\s+)?loyalty\b`),
	}
	spendingRule = moneyRule{
		field:     "spending_score",
		defaultOp: intent.OpGe,
		forward: regexp.MustCompile(
			`\bspending[\s_-]?score\s*(?:is\s+)?(` + moneyOpPattern + `)?\s*(\d+)\b`),
	}

	reLoyaltyTenure = regexp.MustCompile(`\bcustomer\s+for\s+(\d+)\s+(?:year|yr)s?\b`)
	reSpendingLevel = regexp.MustCompile(`\b(high|low)[\s-]?spending\b`)
)

func (r *Resolver) income(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	return r.applyMoney(incomeRule, n, ctx)
}

func (r *Resolver) savings(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	return r.applyMoney(savingsRule, n, ctx)
}

func (r *Resolver) creditScore(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	return r.applyMoney(creditRule, n, ctx)
}

// loyaltyYears recognizes the tenure phrasing ("customer for 5 years") in
// addition to the shared money shapes.
func (r *Resolver) loyaltyYears(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	if ctx.Resolved("loyalty_years") {
		return false, nil
	}
	if m := reLoyaltyTenure.FindStringSubmatch(n.Lower); m != nil {
		ctx.AddCondition(intent.Condition{
			Field: "loyalty_years",
			Op:    intent.OpGe,
			Value: intent.Coerce(m[1], true),
		})
		return true, nil
	}
	return r.applyMoney(loyaltyRule, n, ctx)
}

// spendingScore adds the high/low cohort on top of the shared shapes:
// "high spending" is a score above 70, "low spending" below 30.
func (r *Resolver) spendingScore(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	if ctx.Resolved("spending_score") {
		return false, nil
	}
	if m := reSpendingLevel.FindStringSubmatch(n.Lower); m != nil {
		c := intent.Condition{Field: "spending_score", Op: intent.OpGt, Value: intent.Number(70)}
		if m[1] == "low" {
			c.Op, c.Value = intent.OpLt, intent.Number(30)
		}
		ctx.AddCondition(c)
		return true, nil
	}
	return r.applyMoney(spendingRule, n, ctx)
}

// category maps synonym phrases to the three canonical category labels.
// Labels are scanned in sorted order so overlapping synonym sets resolve
// deterministically.
func (r *Resolver) category(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	if ctx.Resolved("preferred_category") {
		return false, nil
	}
	labels := make([]string, 0, len(r.reg.Categories))
	for label := range r.reg.Categories {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		for _, term := range r.reg.Categories[label] {
			if !strings.Contains(padded(n.Lower), padded(term)) {
				continue
			}
			ctx.AddCondition(intent.Condition{
				Field:    "preferred_category",
				Op:       intent.OpEq,
				Value:    intent.Text(label),
				FoldCase: true,
			})
			return true, nil
		}
	}
	return false, nil
}

var reAgeGroupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bage[\s_-]?group\s*(?:is\s+|of\s+|:)?\s*(\d+\s*[-–]\s*\d+)`),
	regexp.MustCompile(`\b(\d+\s*[-–]\s*\d+)\s*(?:year[\s-]?olds?|years?\s+old)\b`),
}

// ageGroup recognizes bucket phrases ("18-25 year olds") and stores the
// bucket string as an equality condition on the age-group column.
func (r *Resolver) ageGroup(n Normalized, ctx *intent.ResolutionContext) (bool, error) {
	if ctx.Resolved("age_group") {
		return false, nil
	}
	for _, re := range reAgeGroupPatterns {
		m := re.FindStringSubmatch(n.Lower)
		if m == nil {
			continue
		}
		bucket := strings.ReplaceAll(strings.ReplaceAll(m[1], " ", ""), "–", "-")
		ctx.AddCondition(intent.Condition{
			Field:    "age_group",
			Op:       intent.OpEq,
			Value:    intent.Text(bucket),
			FoldCase: true,
		})
		return true, nil
	}
	return false, nil
}
