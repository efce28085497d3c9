// Package classify scores candidate subjects and topics against the lexicon.
// Subject classification is confidence-weighted pattern matching with fixed
// discounts for weaker evidence; topic classification is first-match keyword
// membership. Both are deterministic: ties break to the first registered
// candidate.
package classify

import (
	"strings"

	"github.com/campusbot/converse/internal/lexicon"
	"github.com/campusbot/converse/pkg/types"
)

// Confidence discounts and floors for subject classification. These values
// are tuned against real transcripts; treat them as calibration constants.
const (
	// PrimaryPatternConfidence is awarded for a language-matched pattern.
	PrimaryPatternConfidence = 1.0

	// OppositePatternDiscount applies when the pattern for the other
	// language matches instead.
	OppositePatternDiscount = 0.9

	// KeywordConfidence applies for a standalone keyword hit.
	KeywordConfidence = 0.95

	// CarrierKeywordConfidence applies when the keyword appears inside a
	// "study/major" carrier phrase.
	CarrierKeywordConfidence = 0.8

	// MinSubjectConfidence is the floor below which no subject is
	// returned.
	MinSubjectConfidence = 0.4
)

// SubjectMatch is the result of subject classification. A zero-confidence
// match means no subject reached the floor.
type SubjectMatch struct {
	Subject    string
	Confidence float64
}

// Classifier scores text against a lexicon.
type Classifier struct {
	lex *lexicon.Lexicon
}

// New returns a classifier over the given lexicon.
func New(lex *lexicon.Lexicon) *Classifier {
	return &Classifier{lex: lex}
}

// ClassifySubject returns the best-scoring subject for the text, or a
// zero-value match when nothing reaches the confidence floor.
//
// Two carve-outs are checked before scoring:
//   - possessive references ("its fees") force subject retention and must
//     never be treated as a new subject, so they classify to nothing here;
//   - colloquial Arabic study-advice phrases ("شو بدي ادرس", "افضل تخصص")
//     express general intent, not a major, and also classify to nothing.
func (c *Classifier) ClassifySubject(text string, language types.Language) SubjectMatch {
	if strings.TrimSpace(text) == "" {
		return SubjectMatch{}
	}
	if attr, ok := c.PossessiveReference(text); ok && attr != "" {
		return SubjectMatch{}
	}
	if c.lex.MatchesDialectalStudyIntent(text) {
		return SubjectMatch{}
	}

	carrier := c.hasCarrierPhrase(text, language)
	lowered := strings.ToLower(text)

	best := SubjectMatch{}
	for _, subject := range c.lex.Subjects {
		score := c.scoreSubject(subject, text, lowered, language, carrier)
		// Strict comparison: the first registered candidate wins ties.
		if score > best.Confidence {
			best = SubjectMatch{Subject: subject.Name, Confidence: score}
		}
	}

	if best.Confidence < MinSubjectConfidence {
		return SubjectMatch{}
	}
	return best
}

// scoreSubject scores one candidate. Primary-language pattern beats the
// opposite-language pattern beats keywords.
func (c *Classifier) scoreSubject(subject lexicon.Subject, text, lowered string, language types.Language, carrier bool) float64 {
	primary, opposite := subject.PatternEN, subject.PatternAR
	if language == types.LanguageArabic {
		primary, opposite = subject.PatternAR, subject.PatternEN
	}

	if primary != nil && primary.MatchString(text) {
		return PrimaryPatternConfidence
	}
	if opposite != nil && opposite.MatchString(text) {
		return OppositePatternDiscount
	}

	for _, kw := range subject.Keywords {
		if strings.Contains(lowered, kw) {
			if carrier {
				return CarrierKeywordConfidence
			}
			return KeywordConfidence
		}
	}
	return 0
}

// hasCarrierPhrase reports whether the text contains a study/major carrier
// phrase in the given language.
func (c *Classifier) hasCarrierPhrase(text string, language types.Language) bool {
	if language == types.LanguageArabic {
		return c.lex.CarrierAR.MatchString(text)
	}
	return c.lex.CarrierEN.MatchString(text)
}

// PossessiveReference detects "its X" / "their Y" style references and
// returns the attribute category X resolves to. The second return is true
// whenever a possessive form was found, even if the attribute is unknown.
func (c *Classifier) PossessiveReference(text string) (attribute string, ok bool) {
	if m := c.lex.PossessiveEN.FindStringSubmatch(text); m != nil {
		return c.lex.AttributeForWord(m[1]), true
	}
	for form, attr := range c.lex.PossessiveAR {
		if strings.Contains(text, form) {
			return attr, true
		}
	}
	return "", false
}

// SubjectVocabularyPresent reports whether the text contains any vocabulary
// that indicates the academic domain is still under discussion: a topic or
// attribute keyword, or a study/major carrier phrase. Used by the update
// engine to decide whether a subject-less, non-follow-up message should
// clear the current subject.
func (c *Classifier) SubjectVocabularyPresent(text string, language types.Language) bool {
	if c.hasCarrierPhrase(text, language) {
		return true
	}
	return c.lex.TopicFor(text) != ""
}
