package classify

import (
	"testing"

	"github.com/campusbot/converse/internal/lexicon"
	"github.com/campusbot/converse/pkg/types"
)

func newTestClassifier() *Classifier {
	return New(lexicon.Default())
}

func TestClassifySubject_PrimaryPattern(t *testing.T) {
	c := newTestClassifier()

	match := c.ClassifySubject("I want to study Computer Science", types.LanguageEnglish)
	if match.Subject != "Computer Science" {
		t.Fatalf("subject = %q, want Computer Science", match.Subject)
	}
	if match.Confidence != PrimaryPatternConfidence {
		t.Errorf("confidence = %v, want %v", match.Confidence, PrimaryPatternConfidence)
	}
}

func TestClassifySubject_ArabicPattern(t *testing.T) {
	c := newTestClassifier()

	match := c.ClassifySubject("أدرس تخصص البصريات", types.LanguageArabic)
	if match.Subject != "Optometry" {
		t.Fatalf("subject = %q, want Optometry", match.Subject)
	}
	if match.Confidence != PrimaryPatternConfidence {
		t.Errorf("confidence = %v, want %v", match.Confidence, PrimaryPatternConfidence)
	}
}

// TestClassifySubject_OppositeLanguageDiscount verifies that a pattern hit
// for the other language still classifies, at a discount.
func TestClassifySubject_OppositeLanguageDiscount(t *testing.T) {
	c := newTestClassifier()

	match := c.ClassifySubject("البصريات", types.LanguageEnglish)
	if match.Subject != "Optometry" {
		t.Fatalf("subject = %q, want Optometry", match.Subject)
	}
	if match.Confidence != OppositePatternDiscount {
		t.Errorf("confidence = %v, want %v", match.Confidence, OppositePatternDiscount)
	}
}

func TestClassifySubject_Keyword(t *testing.T) {
	c := newTestClassifier()

	match := c.ClassifySubject("I enjoy programming a lot", types.LanguageEnglish)
	if match.Subject != "Computer Science" {
		t.Fatalf("subject = %q, want Computer Science", match.Subject)
	}
	if match.Confidence != KeywordConfidence {
		t.Errorf("confidence = %v, want %v", match.Confidence, KeywordConfidence)
	}
}

// TestClassifySubject_CarrierDiscountsKeyword verifies a keyword inside a
// study/major carrier phrase scores lower than a standalone keyword.
func TestClassifySubject_CarrierDiscountsKeyword(t *testing.T) {
	c := newTestClassifier()

	match := c.ClassifySubject("I want to study programming", types.LanguageEnglish)
	if match.Subject != "Computer Science" {
		t.Fatalf("subject = %q, want Computer Science", match.Subject)
	}
	if match.Confidence != CarrierKeywordConfidence {
		t.Errorf("confidence = %v, want %v", match.Confidence, CarrierKeywordConfidence)
	}
}

// TestClassifySubject_PossessiveCarveOut verifies possessive references never
// introduce a new subject.
func TestClassifySubject_PossessiveCarveOut(t *testing.T) {
	c := newTestClassifier()

	match := c.ClassifySubject("what are its requirements?", types.LanguageEnglish)
	if match.Subject != "" || match.Confidence != 0 {
		t.Errorf("possessive reference must not classify, got %+v", match)
	}
}

// TestClassifySubject_DialectalCarveOut verifies colloquial Arabic
// study-advice phrases classify to nothing.
func TestClassifySubject_DialectalCarveOut(t *testing.T) {
	c := newTestClassifier()

	match := c.ClassifySubject("شو بدي ادرس؟", types.LanguageArabic)
	if match.Subject != "" {
		t.Errorf("dialectal study intent must not classify, got %+v", match)
	}
}

func TestClassifySubject_NoMatch(t *testing.T) {
	c := newTestClassifier()

	for _, input := range []string{"", "   ", "hello, nice weather today"} {
		if match := c.ClassifySubject(input, types.LanguageEnglish); match.Subject != "" {
			t.Errorf("ClassifySubject(%q) = %+v, want no match", input, match)
		}
	}
}

func TestClassifyTopic(t *testing.T) {
	c := newTestClassifier()

	if got := c.ClassifyTopic("how much is the tuition?"); got != "fees" {
		t.Errorf("topic = %q, want fees", got)
	}
	if got := c.ClassifyTopic("hello"); got != "" {
		t.Errorf("topic = %q, want empty", got)
	}
}

func TestPossessiveReference(t *testing.T) {
	c := newTestClassifier()

	attr, ok := c.PossessiveReference("What are its fees?")
	if !ok || attr != "fees" {
		t.Errorf("got (%q, %v), want (fees, true)", attr, ok)
	}

	attr, ok = c.PossessiveReference("ما هي متطلباتها؟")
	if !ok || attr != "requirements" {
		t.Errorf("got (%q, %v), want (requirements, true)", attr, ok)
	}

	// Possessive form with an unknown attribute still reports found.
	attr, ok = c.PossessiveReference("I like its color")
	if !ok || attr != "" {
		t.Errorf("got (%q, %v), want (empty, true)", attr, ok)
	}

	if _, ok := c.PossessiveReference("what are the fees?"); ok {
		t.Error("no possessive form present, want ok = false")
	}
}

// TestSubjectVocabularyPresent drives the keep-or-clear decision for
// subject-less messages.
func TestSubjectVocabularyPresent(t *testing.T) {
	c := newTestClassifier()

	cases := []struct {
		text     string
		language types.Language
		want     bool
	}{
		{"ما هو نظام العلامات؟", types.LanguageArabic, true},
		{"what about the schedule", types.LanguageEnglish, true},
		{"I want to study something", types.LanguageEnglish, true},
		{"thanks, goodbye!", types.LanguageEnglish, false},
	}
	for _, tc := range cases {
		if got := c.SubjectVocabularyPresent(tc.text, tc.language); got != tc.want {
			t.Errorf("SubjectVocabularyPresent(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
