package resolve

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalized carries the three views of the request text the rule groups
// match against. Primary patterns run on Lower; a few rules are spacing
// sensitive and read Original; the select-list fallback reads Stopless.
type Normalized struct {
	// Original is the request text with surrounding whitespace trimmed
	// but casing and interior spacing intact.
	Original string

	// Lower is the NFC-normalized, lower-cased copy used by
	// case-insensitive rules.
	Lower string

	// Stopless is Lower with the stop-word set removed, used by the
	// column-selection fallback heuristics.
	Stopless string
}

// stopWords is the fixed set removed for secondary passes. Words that
// double as operator aliases ("over", "under", "between") stay out of the
// primary pass removal entirely; Stopless is only consulted after the
// condition extractors have run.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"a an the and or but is are was were be been being " +
			"to of in on at by for with about as into like through " +
			"after over between out against during before above below from " +
			"up down off under again further then once " +
			"here there when where why how all any both each few more " +
			"most other some such no nor not only own same so than " +
			"too very can will just should now that this these those " +
			"show list get give find me my mine our ours you your " +
			"yours their theirs which who whom whose what am " +
			"have has had having do does did doing would could " +
			"may might must shall ought") {
		stopWords[w] = struct{}{}
	}
}

// Normalize derives the matching views from raw request text. It has no
// failure modes: an empty string normalizes to three empty strings and
// the validity gate handles emptiness downstream.
func Normalize(text string) Normalized {
	original := strings.TrimSpace(text)
	lower := strings.ToLower(norm.NFC.String(original))
	// Sentence punctuation carries no intent and trips anchored patterns
	// ("average income by gender?").
	lower = strings.TrimRight(lower, " \t.!?,;")

	return Normalized{
		Original: original,
		Lower:    lower,
		Stopless: stripStopWords(lower),
	}
}

// stripStopWords removes the stop-word set from already-lowered text.
// The select-list fallback runs column lookups on stripped phrases so
// filler ("the", "of") never hides a column mention.
func stripStopWords(s string) string {
	var kept []string
	for _, w := range strings.Fields(s) {
		if _, stop := stopWords[strings.Trim(w, "'\".,;:!?")]; !stop {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// padded wraps a string in single spaces so whole-word scans can match
// ` term ` without regex word boundaries.
func padded(s string) string {
	return " " + s + " "
}

// containsWord reports whether term appears as a whole word in s.
func containsWord(s, term string) bool {
	return strings.Contains(padded(s), padded(term))
}
