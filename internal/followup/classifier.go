// Package followup decides whether an incoming message is a follow-up to the
// prior exchange. The decision combines independent weak signals into an
// additive score, capped and normalized into a confidence. Canonical
// continuation phrases override the formula entirely: "tell me more" is a
// follow-up no matter what the arithmetic says.
package followup

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/campusbot/converse/internal/classify"
	"github.com/campusbot/converse/internal/lexicon"
	"github.com/campusbot/converse/pkg/types"
)

// Weights holds the signal weights and decision bounds. The defaults are
// empirically tuned magic numbers; keep them configurable rather than
// re-deriving "correct" values.
type Weights struct {
	Possessive         float64 // possessive/referential pronoun ("its X")
	Continuation       float64 // canonical continuation phrase
	DiscourseMarker    float64 // leading "and", "but", "what about", "و"
	ShortMessage       float64 // <= 4 words
	VeryShortMessage   float64 // <= 2 words, added on top of ShortMessage
	SubjectPersistence float64 // no new subject while context has one
	NumberReference    float64 // literal or categorical reference to a stored number
	BackReference      float64 // "mentioned", "above", "again"
	IncompleteQuestion float64 // bare "how much", "when"

	MaxScore  float64 // additive cap
	Threshold float64 // decision boundary on the raw score
}

// DefaultWeights returns the tuned defaults.
// Threshold 2.0 over MaxScore 5.0 puts the decision boundary at 40%.
func DefaultWeights() Weights {
	return Weights{
		Possessive:         1.5,
		Continuation:       4.5,
		DiscourseMarker:    1.0,
		ShortMessage:       0.5,
		VeryShortMessage:   0.5,
		SubjectPersistence: 1.0,
		NumberReference:    1.0,
		BackReference:      0.75,
		IncompleteQuestion: 0.75,
		MaxScore:           5.0,
		Threshold:          2.0,
	}
}

// Result is the outcome of one follow-up classification.
type Result struct {
	// IsFollowUp is the boolean decision.
	IsFollowUp bool

	// Confidence is Score normalized by MaxScore, forced to >= 0.9 for
	// canonical continuations.
	Confidence float64

	// Score is the raw additive score before normalization.
	Score float64

	// MaintainSubject is set by possessive references: the update engine
	// must preserve the current subject instead of re-classifying.
	MaintainSubject bool

	// PureContinuation is set by canonical continuation phrases: subject
	// and topic must not change this turn.
	PureContinuation bool

	// Signals names the signals that fired, for the debug view.
	Signals []string
}

// Classifier scores messages against a lexicon and the conversation context.
type Classifier struct {
	lex      *lexicon.Lexicon
	subjects *classify.Classifier
	weights  Weights
}

// New returns a follow-up classifier. The subject classifier is consulted
// for the subject-persistence signal: not finding a new subject is itself
// evidence of continuity.
func New(lex *lexicon.Lexicon, subjects *classify.Classifier, weights Weights) *Classifier {
	return &Classifier{lex: lex, subjects: subjects, weights: weights}
}

var digitRun = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// Classify scores the message. language is the effective language detected
// for this turn, which can differ from ctx.Language on a switch turn; every
// pass over the same message must classify subjects with the same language.
// A conversation's first user message is never a follow-up, and neither is
// empty input.
func (c *Classifier) Classify(text string, language types.Language, ctx *types.ConversationContext) Result {
	trimmed := strings.TrimSpace(text)
	if ctx == nil || ctx.UserTurns == 0 || trimmed == "" {
		return Result{}
	}

	lowered := strings.ToLower(trimmed)
	result := Result{}
	add := func(weight float64, signal string) {
		result.Score += weight
		result.Signals = append(result.Signals, signal)
	}

	// Signal 1: possessive / referential pronouns. Highest-value evidence;
	// also tells the update engine to keep the current subject.
	if _, ok := c.subjects.PossessiveReference(trimmed); ok {
		result.MaintainSubject = true
		add(c.weights.Possessive, "possessive_reference")
	} else if c.hasReferentialPronoun(lowered) {
		add(c.weights.Possessive, "referential_pronoun")
	}

	// Signal 2: canonical continuation phrase. Overrides the formula below.
	if c.lex.MatchesContinuation(trimmed) {
		result.PureContinuation = true
		add(c.weights.Continuation, "continuation_phrase")
	}

	// Signal 3: leading discourse marker.
	for _, marker := range c.lex.DiscourseMarkers {
		if strings.HasPrefix(lowered, marker) || strings.HasPrefix(trimmed, marker) {
			add(c.weights.DiscourseMarker, "discourse_marker")
			break
		}
	}

	// Signal 4: brevity. Short messages rarely stand alone.
	words := len(strings.Fields(trimmed))
	if words <= 4 {
		add(c.weights.ShortMessage, "short_message")
		if words <= 2 {
			add(c.weights.VeryShortMessage, "very_short_message")
		}
	}

	// Signal 5: subject persistence. No new subject in the message while
	// the context already holds one.
	if ctx.CurrentSubject != "" {
		if match := c.subjects.ClassifySubject(trimmed, language); match.Subject == "" {
			add(c.weights.SubjectPersistence, "subject_persistence")
		}
	}

	// Signal 6: reference to a previously extracted number, by literal
	// value or by naming the category without digits.
	if c.referencesStoredNumber(lowered, ctx) {
		add(c.weights.NumberReference, "number_reference")
	}

	// Signal 7: contextual back-reference words.
	if containsAny(lowered, c.lex.BackReferences) || containsAny(trimmed, c.lex.BackReferences) {
		add(c.weights.BackReference, "back_reference")
	}

	// Signal 8: incomplete-question patterns.
	if containsAny(lowered, c.lex.IncompleteQuestions) || containsAny(trimmed, c.lex.IncompleteQuestions) {
		add(c.weights.IncompleteQuestion, "incomplete_question")
	}

	if result.Score > c.weights.MaxScore {
		result.Score = c.weights.MaxScore
	}
	result.Confidence = result.Score / c.weights.MaxScore
	result.IsFollowUp = result.Score >= c.weights.Threshold

	// Canonical continuations are unambiguous: force the decision and a
	// floor on confidence regardless of the additive formula.
	if result.PureContinuation {
		result.IsFollowUp = true
		if result.Confidence < 0.9 {
			result.Confidence = 0.9
		}
	}

	return result
}

// hasReferentialPronoun reports a whole-word referential pronoun hit.
func (c *Classifier) hasReferentialPronoun(lowered string) bool {
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return r == ' ' || r == '?' || r == '!' || r == '.' || r == ',' || r == '؟' || r == '،'
	})
	for _, w := range words {
		for _, p := range c.lex.ReferentialPronouns {
			if w == p {
				return true
			}
		}
	}
	return false
}

// referencesStoredNumber checks the two number-reference forms.
func (c *Classifier) referencesStoredNumber(lowered string, ctx *types.ConversationContext) bool {
	if len(ctx.LastNumbers) == 0 {
		return false
	}

	// Literal value match.
	for _, raw := range digitRun.FindAllString(lowered, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			continue
		}
		for _, stored := range ctx.LastNumbers {
			if stored == v {
				return true
			}
		}
	}

	// Category word without digits ("the fees" after a fee was seen).
	if !digitRun.MatchString(lowered) {
		for key, words := range c.lex.NumberWords {
			if _, ok := ctx.LastNumbers[key]; !ok {
				continue
			}
			if containsAny(lowered, words) {
				return true
			}
		}
	}

	return false
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
