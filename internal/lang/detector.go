// Package lang provides script-based language detection for the chat widget.
// Detection is pure character classification: no dictionaries, O(len(text)).
package lang

import (
	"unicode"

	"github.com/campusbot/converse/pkg/types"
)

// ArabicRatio is the scaling applied to the Latin count before comparison.
// Arabic wins when arabicCount > ArabicRatio * latinCount.
const ArabicRatio = 0.5

// ambiguityMargin is the rune-count margin under which a detection is
// considered near-tied. Sticky language updates skip near-tied results to
// avoid flapping on mixed-script messages.
const ambiguityMargin = 2

// Detect classifies a text span as English or Arabic by counting runes in
// the Arabic Unicode block against Latin letters. Empty or whitespace-only
// input returns English, the default.
func Detect(text string) types.Language {
	arabic, latin := countScripts(text)
	if float64(arabic) > ArabicRatio*float64(latin) && arabic > 0 {
		return types.LanguageArabic
	}
	return types.LanguageEnglish
}

// DetectUnambiguous classifies the text and additionally reports whether the
// result is decisive enough to overwrite a sticky per-conversation language.
func DetectUnambiguous(text string) (types.Language, bool) {
	arabic, latin := countScripts(text)
	if arabic == 0 && latin == 0 {
		return types.LanguageEnglish, false
	}

	scaled := ArabicRatio * float64(latin)
	if float64(arabic) > scaled {
		decisive := float64(arabic)-scaled >= ambiguityMargin
		return types.LanguageArabic, decisive
	}
	decisive := scaled-float64(arabic) >= ambiguityMargin || arabic == 0
	return types.LanguageEnglish, decisive
}

// countScripts tallies Arabic-block and Latin letters in one pass.
func countScripts(text string) (arabic, latin int) {
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case r < 128 && unicode.IsLetter(r):
			latin++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}
	return arabic, latin
}
