package lexicon

import "github.com/campusbot/converse/pkg/types"

// defaultTopics returns the built-in topic table. Order matters: the first
// category with a matching keyword wins, so more specific money/admission
// vocabulary is registered before generic scheduling words.
func defaultTopics() []Topic {
	return []Topic{
		{
			Name: "fees",
			Keywords: []string{
				"fee", "fees", "cost", "costs", "tuition", "price", "pay", "payment", "installment",
				"رسوم", "الرسوم", "تكلفة", "التكلفة", "قسط", "اقساط", "أقساط", "سعر", "دفع",
			},
		},
		{
			Name: "admission",
			Keywords: []string{
				"admission", "admissions", "apply", "application", "enroll", "enrollment",
				"register", "registration", "acceptance",
				"قبول", "القبول", "تسجيل", "التسجيل", "التحاق", "الالتحاق",
			},
		},
		{
			Name: "requirements",
			Keywords: []string{
				"requirement", "requirements", "prerequisite", "prerequisites",
				"average", "gpa", "grade", "grades", "marks", "grading",
				"متطلبات", "المتطلبات", "شروط", "الشروط", "معدل", "المعدل",
				"علامات", "العلامات", "الدرجات",
			},
		},
		{
			Name: "duration",
			Keywords: []string{
				"duration", "years", "year", "how long", "semesters", "semester",
				"مدة", "المدة", "سنوات", "سنة", "فصول", "فصل دراسي",
			},
		},
		{
			Name: "courses",
			Keywords: []string{
				"course", "courses", "curriculum", "syllabus", "modules", "credit",
				"credits", "credit hour", "credit hours",
				"مواد", "المواد", "مساقات", "المساقات", "الخطة الدراسية", "ساعات معتمدة",
			},
		},
		{
			Name: "schedule",
			Keywords: []string{
				"schedule", "timetable", "timing", "lecture", "lectures", "attendance",
				"جدول", "الجدول", "دوام", "الدوام", "محاضرات", "المحاضرات",
			},
		},
		{
			Name: "careers",
			Keywords: []string{
				"career", "careers", "job", "jobs", "employment", "work",
				"وظيفة", "وظائف", "عمل", "مستقبل",
			},
		},
	}
}

// numberWords maps each semantic number key to the words that reference the
// category without digits ("the fees" after a fee amount was extracted).
var numberWords = map[types.NumberKey][]string{
	types.NumberFee:      {"fee", "fees", "cost", "tuition", "رسوم", "الرسوم", "تكلفة"},
	types.NumberAverage:  {"average", "gpa", "percentage", "معدل", "المعدل", "نسبة"},
	types.NumberCredits:  {"credit", "credits", "credit hour", "ساعة", "ساعات"},
	types.NumberDuration: {"duration", "years", "مدة", "سنوات"},
	types.NumberCourses:  {"course", "courses", "مواد", "مساقات"},
}
