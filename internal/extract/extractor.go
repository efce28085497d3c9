// Package extract pulls entities and typed numeric values out of raw chat
// text. Extraction is a pure function over the input: quoted phrases and
// Titlecase runs become entities, and an ordered regex table types numbers
// as fee amounts, percentages, credit-hour counts, durations, or course
// counts.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/campusbot/converse/pkg/types"
)

// Result is the output of one extraction pass.
type Result struct {
	// Entities holds quoted phrases and capitalized phrases, in order of
	// appearance, deduplicated.
	Entities []string

	// Numbers maps a semantic key to the extracted value. The last
	// occurrence per key in the message is authoritative.
	Numbers map[types.NumberKey]float64
}

// quotedPhrase matches a run enclosed in straight or curly quotes.
var quotedPhrase = regexp.MustCompile(`["“”'‘’«]([^"“”'‘’«»]+)["“”'‘’»]`)

// capitalizedPhrase matches sequences of Titlecase words in Latin text.
var capitalizedPhrase = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)

// capitalStoplist excludes determiners, pronouns, and question openers that
// appear capitalized only because they start a sentence.
var capitalStoplist = map[string]bool{
	"The": true, "A": true, "An": true, "This": true, "That": true,
	"These": true, "Those": true, "I": true, "We": true, "You": true,
	"He": true, "She": true, "It": true, "They": true, "What": true,
	"How": true, "When": true, "Where": true, "Why": true, "Who": true,
	"Which": true, "Is": true, "Are": true, "Do": true, "Does": true,
	"Can": true, "Could": true, "Please": true, "Tell": true, "And": true,
	"But": true, "Or": true, "If": true, "In": true, "On": true, "For": true,
}

// numberPattern is one row of the ordered typed-number table.
type numberPattern struct {
	key     types.NumberKey
	pattern *regexp.Regexp
}

// numberPatterns is consulted in order; within one message, a later match
// for the same key overwrites an earlier one.
var numberPatterns = []numberPattern{
	{types.NumberFee, regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:jd|jod|dinars?|dollars?|usd|\$|دينار|دنانير)`)},
	{types.NumberAverage, regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:%|percent|بالمئة|بالمائة)`)},
	{types.NumberCredits, regexp.MustCompile(`(?i)(\d+)\s*(?:credit\s*hours?|credits?|ساعة\s*معتمدة|ساعات\s*معتمدة)`)},
	{types.NumberDuration, regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:years?|سنوات|سنة|أعوام)`)},
	{types.NumberCourses, regexp.MustCompile(`(?i)(\d+)\s*(?:courses?|subjects?|مواد|مساقات)`)},
}

// Extract runs entity and number extraction over the text. It never returns
// nil maps and has no side effects.
func Extract(text string) Result {
	result := Result{Numbers: make(map[types.NumberKey]float64)}
	if strings.TrimSpace(text) == "" {
		return result
	}

	seen := make(map[string]bool)
	addEntity := func(e string) {
		e = strings.TrimSpace(e)
		if len([]rune(e)) > 1 && !seen[e] {
			seen[e] = true
			result.Entities = append(result.Entities, e)
		}
	}

	for _, m := range quotedPhrase.FindAllStringSubmatch(text, -1) {
		addEntity(m[1])
	}

	for _, m := range capitalizedPhrase.FindAllString(text, -1) {
		if capitalStoplist[m] {
			continue
		}
		// Trim a leading stoplisted sentence-opener from multi-word runs
		// ("What Computer Science" -> "Computer Science").
		words := strings.Fields(m)
		for len(words) > 0 && capitalStoplist[words[0]] {
			words = words[1:]
		}
		if len(words) == 0 {
			continue
		}
		addEntity(strings.Join(words, " "))
	}

	for _, np := range numberPatterns {
		matches := np.pattern.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		// Last occurrence per key wins.
		raw := strings.ReplaceAll(matches[len(matches)-1][1], ",", ".")
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			result.Numbers[np.key] = v
		}
	}

	return result
}
