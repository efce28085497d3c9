package lexicon

import "regexp"

// defaultSubjects returns the built-in subject table. Order matters: when
// two candidates score identically, the first registered one wins.
func defaultSubjects() []Subject {
	return []Subject{
		{
			Name:      "Computer Science",
			PatternEN: regexp.MustCompile(`(?i)\bcomputer\s+science\b|\bcs\b|\bcomputing\b`),
			PatternAR: regexp.MustCompile(`علوم\s+الحاسوب|علم\s+الحاسوب|الحاسوب|حاسوب`),
			Keywords:  []string{"programming", "software", "برمجة"},
		},
		{
			Name:      "Engineering",
			PatternEN: regexp.MustCompile(`(?i)\bengineering\b`),
			PatternAR: regexp.MustCompile(`الهندسة|هندسة`),
			Keywords:  []string{"engineer", "مهندس"},
		},
		{
			Name:      "Optometry",
			PatternEN: regexp.MustCompile(`(?i)\boptometry\b|\boptics\b`),
			PatternAR: regexp.MustCompile(`البصريات|بصريات|فحص\s+النظر`),
			Keywords:  []string{"optometrist", "نظارات"},
		},
		{
			Name:      "Pharmacy",
			PatternEN: regexp.MustCompile(`(?i)\bpharmacy\b|\bpharmaceutical\b`),
			PatternAR: regexp.MustCompile(`الصيدلة|صيدلة`),
			Keywords:  []string{"pharmacist", "صيدلي"},
		},
		{
			Name:      "Medicine",
			PatternEN: regexp.MustCompile(`(?i)\bmedicine\b|\bmedical\s+school\b`),
			PatternAR: regexp.MustCompile(`الطب\s+البشري|الطب|طب\s+عام`),
			Keywords:  []string{"doctor", "طبيب"},
		},
		{
			Name:      "Dentistry",
			PatternEN: regexp.MustCompile(`(?i)\bdentistry\b|\bdental\b`),
			PatternAR: regexp.MustCompile(`طب\s+الأسنان|الأسنان|اسنان`),
			Keywords:  []string{"dentist"},
		},
		{
			Name:      "Nursing",
			PatternEN: regexp.MustCompile(`(?i)\bnursing\b`),
			PatternAR: regexp.MustCompile(`التمريض|تمريض`),
			Keywords:  []string{"nurse", "ممرض"},
		},
		{
			Name:      "Business Administration",
			PatternEN: regexp.MustCompile(`(?i)\bbusiness\s+administration\b|\bbusiness\b|\bmba\b`),
			PatternAR: regexp.MustCompile(`إدارة\s+الأعمال|ادارة\s+الاعمال|الأعمال`),
			Keywords:  []string{"management", "إدارة"},
		},
		{
			Name:      "Law",
			PatternEN: regexp.MustCompile(`(?i)\blaw\b|\blegal\s+studies\b`),
			PatternAR: regexp.MustCompile(`الحقوق|القانون|حقوق`),
			Keywords:  []string{"lawyer", "محامي"},
		},
		{
			Name:      "Architecture",
			PatternEN: regexp.MustCompile(`(?i)\barchitecture\b`),
			PatternAR: regexp.MustCompile(`الهندسة\s+المعمارية|العمارة|عمارة`),
			Keywords:  []string{"architect"},
		},
		{
			Name:      "Psychology",
			PatternEN: regexp.MustCompile(`(?i)\bpsychology\b`),
			PatternAR: regexp.MustCompile(`علم\s+النفس|النفس`),
			Keywords:  []string{"psychologist", "نفسي"},
		},
		{
			Name:      "Graphic Design",
			PatternEN: regexp.MustCompile(`(?i)\bgraphic\s+design\b|\bdesign\b`),
			PatternAR: regexp.MustCompile(`التصميم\s+الجرافيكي|التصميم|تصميم`),
			Keywords:  []string{"designer", "مصمم"},
		},
	}
}

// carrierEN matches English "study/major" carrier phrases. A subject keyword
// found inside such a phrase scores lower than a standalone keyword.
var carrierEN = regexp.MustCompile(`(?i)\b(?:study|studying|major(?:ing)?\s+in|specialize\s+in|degree\s+in)\b`)

// carrierAR is the Arabic equivalent.
var carrierAR = regexp.MustCompile(`أدرس|ادرس|دراسة|تخصص|أتخصص`)

// dialectalStudyIntent holds colloquial Arabic study-advice phrases. These
// express "what should I study", not a specific major, and must be checked
// before the generic subject patterns.
var dialectalStudyIntent = []string{
	"شو بدي ادرس",
	"شو ادرس",
	"ايش ادرس",
	"وش ادرس",
	"افضل تخصص",
	"أفضل تخصص",
	"احسن تخصص",
	"أحسن تخصص",
	"شو احسن تخصص",
}
