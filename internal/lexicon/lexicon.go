// Package lexicon holds the static bilingual dictionaries that drive
// classification: subject patterns, topic keyword sets, follow-up discourse
// markers, and attribute keywords. Tables are plain data iterated generically;
// registration order is significant (it is the deterministic tie-break order
// for subjects and the first-match order for topics).
package lexicon

import (
	"regexp"
	"strings"

	"github.com/campusbot/converse/pkg/types"
)

// Subject is one candidate academic major with its language-specific
// patterns and a bilingual keyword list.
type Subject struct {
	// Name is the canonical English name reported by the classifier.
	Name string

	// PatternEN and PatternAR are the primary detection patterns.
	// The pattern for the opposite language is still consulted, at a
	// confidence discount.
	PatternEN *regexp.Regexp
	PatternAR *regexp.Regexp

	// Keywords are lowercase bilingual fallback keywords.
	Keywords []string
}

// Topic is one functional question category with its keyword set.
// Topics are mutually exclusive per message: the first registered category
// with a matching keyword wins.
type Topic struct {
	Name     string
	Keywords []string
}

// Lexicon bundles all dictionaries consulted by the classifiers.
type Lexicon struct {
	Subjects []Subject
	Topics   []Topic

	// DialectalStudyIntent holds colloquial Arabic phrases that express a
	// general "what should I study" intent. They are checked before the
	// generic subject patterns so that e.g. "افضل تخصص" does not falsely
	// match a specific major.
	DialectalStudyIntent []string

	// ContinuationPhrases are canonical full-message continuations.
	// A match forces the follow-up decision regardless of score.
	ContinuationPhrases []string

	// DiscourseMarkers are connectives that signal continuation when they
	// appear at the start of a message.
	DiscourseMarkers []string

	// BackReferences are words that point at earlier turns.
	BackReferences []string

	// IncompleteQuestions are bare question openers that lack an object.
	IncompleteQuestions []string

	// ClarificationPhrases flag clarification intent.
	ClarificationPhrases []string

	// ReferentialPronouns signal that the message leans on prior context.
	ReferentialPronouns []string

	// PossessiveEN captures the attribute word of "its X" / "their X".
	PossessiveEN *regexp.Regexp

	// PossessiveAR maps Arabic possessive forms to attribute names.
	PossessiveAR map[string]string

	// CarrierEN and CarrierAR match "study/major" carrier phrases that
	// discount keyword-only subject matches.
	CarrierEN *regexp.Regexp
	CarrierAR *regexp.Regexp

	// NumberWords maps a semantic number key to the words that reference
	// that category without digits ("the fees").
	NumberWords map[types.NumberKey][]string
}

// Default returns the built-in bilingual lexicon.
func Default() *Lexicon {
	lex := &Lexicon{
		Subjects:             defaultSubjects(),
		Topics:               defaultTopics(),
		DialectalStudyIntent: dialectalStudyIntent,
		ContinuationPhrases:  continuationPhrases,
		DiscourseMarkers:     discourseMarkers,
		BackReferences:       backReferences,
		IncompleteQuestions:  incompleteQuestions,
		ClarificationPhrases: clarificationPhrases,
		ReferentialPronouns:  referentialPronouns,
		PossessiveEN:         possessiveEN,
		PossessiveAR:         possessiveAR,
		CarrierEN:            carrierEN,
		CarrierAR:            carrierAR,
		NumberWords:          numberWords,
	}
	return lex
}

// TopicFor returns the first registered topic whose keyword set matches the
// text, or "" when none matches.
func (l *Lexicon) TopicFor(text string) string {
	lowered := strings.ToLower(text)
	for _, topic := range l.Topics {
		for _, kw := range topic.Keywords {
			if strings.Contains(lowered, kw) {
				return topic.Name
			}
		}
	}
	return ""
}

// AttributesIn returns every topic category whose keywords appear in the
// text, in registration order. Unlike TopicFor this does not stop at the
// first match; the result feeds the carryover attribute set.
func (l *Lexicon) AttributesIn(text string) []string {
	lowered := strings.ToLower(text)
	var attrs []string
	for _, topic := range l.Topics {
		for _, kw := range topic.Keywords {
			if strings.Contains(lowered, kw) {
				attrs = append(attrs, topic.Name)
				break
			}
		}
	}
	return attrs
}

// AttributeForWord maps a single word to its topic category, or "".
func (l *Lexicon) AttributeForWord(word string) string {
	lowered := strings.ToLower(strings.TrimSpace(word))
	for _, topic := range l.Topics {
		for _, kw := range topic.Keywords {
			if lowered == kw {
				return topic.Name
			}
		}
	}
	return ""
}

// containsPhrase reports whether any phrase in the list occurs in the text.
func containsPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// MatchesContinuation reports whether the whole trimmed message is a
// canonical continuation phrase.
func (l *Lexicon) MatchesContinuation(text string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	trimmed = strings.Trim(trimmed, "?!.،؟ ")
	for _, p := range l.ContinuationPhrases {
		if trimmed == p {
			return true
		}
	}
	return false
}

// MatchesClarification reports whether the message expresses clarification
// intent ("what do you mean", "can you explain").
func (l *Lexicon) MatchesClarification(text string) bool {
	return containsPhrase(strings.ToLower(text), l.ClarificationPhrases)
}

// MatchesDialectalStudyIntent reports whether the message is a colloquial
// Arabic study-advice question rather than a reference to a specific major.
func (l *Lexicon) MatchesDialectalStudyIntent(text string) bool {
	return containsPhrase(text, l.DialectalStudyIntent)
}
