package lexicon

import "regexp"

// continuationPhrases are canonical full-message continuations in both
// languages. Matching one forces the follow-up decision.
var continuationPhrases = []string{
	"ok", "okay", "and", "continue", "go on", "tell me more", "more",
	"more details", "what else", "yes",
	"طيب", "كمل", "أكمل", "اكمل", "تابع", "زيد", "المزيد", "وبعدين", "ايوا", "نعم",
}

// discourseMarkers signal continuation when they open a message.
var discourseMarkers = []string{
	"and ", "but ", "also ", "what about", "how about", "so ",
	"و", "لكن", "ماذا عن", "وماذا", "طيب و",
}

// backReferences point at content from earlier turns.
var backReferences = []string{
	"mentioned", "above", "again", "earlier", "before", "you said", "previous",
	"ذكرت", "سابقا", "سابقاً", "مرة أخرى", "مرة ثانية", "قلت",
}

// incompleteQuestions are bare question openers with no object of their own.
var incompleteQuestions = []string{
	"how much", "how many", "when", "where", "why", "which one",
	"كم", "متى", "أين", "وين", "لماذا", "ليش", "أي واحد",
}

// clarificationPhrases flag clarification intent.
var clarificationPhrases = []string{
	"what do you mean", "can you explain", "explain", "i don't understand",
	"i dont understand", "not clear", "confused",
	"ماذا تقصد", "شو قصدك", "وضح", "اشرح", "لم أفهم", "ما فهمت", "مش واضح",
}

// referentialPronouns lean on prior context without naming it.
var referentialPronouns = []string{
	"it", "its", "this", "that", "these", "those", "their", "them",
	"هذا", "هذه", "ذلك", "تلك", "هو", "هي",
}

// possessiveEN captures the attribute word of a possessive reference.
// "its requirements" / "their fees" force subject retention; they never
// introduce a new subject.
var possessiveEN = regexp.MustCompile(`(?i)\b(?:its|their)\s+([a-z]+)`)

// possessiveAR maps Arabic possessive-suffixed attribute words to the
// attribute category they reference.
var possessiveAR = map[string]string{
	"رسومه":     "fees",
	"رسومها":    "fees",
	"تكلفته":    "fees",
	"تكلفتها":   "fees",
	"متطلباته":  "requirements",
	"متطلباتها": "requirements",
	"شروطه":     "requirements",
	"شروطها":    "requirements",
	"مدته":      "duration",
	"مدتها":     "duration",
	"مواده":     "courses",
	"موادها":    "courses",
	"جدوله":     "schedule",
	"جدولها":    "schedule",
}
