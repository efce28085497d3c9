package engine

import (
	"fmt"

	"github.com/campusbot/converse/pkg/types"
)

// attributeLabelsAR maps attribute categories to the Arabic noun used when
// rewriting possessive references for an Arabic conversation.
var attributeLabelsAR = map[string]string{
	"fees":         "الرسوم",
	"admission":    "شروط القبول",
	"requirements": "المتطلبات",
	"duration":     "المدة",
	"courses":      "المواد",
	"schedule":     "الجدول الدراسي",
	"careers":      "فرص العمل",
}

// EnrichedQuery rewrites an ambiguous short message into a self-contained
// query using the conversation's context. The external assistant API has no
// memory of its own, so every outbound query must stand alone. Returns the
// message unchanged when no enrichment rule applies.
func (e *Engine) EnrichedQuery(conversationID, text string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, ok := e.store.Peek(conversationID)
	if !ok {
		return text
	}
	return e.enrich(text, ctx)
}

// enrich applies the enrichment rules in priority order.
func (e *Engine) enrich(text string, ctx *types.ConversationContext) string {
	// Rule 1: possessive reference with a known subject. "What are its
	// requirements?" becomes an explicit question about the subject.
	if attr, ok := e.classifier.PossessiveReference(text); ok && attr != "" && ctx.CurrentSubject != "" {
		if ctx.Language == types.LanguageArabic {
			label := attributeLabelsAR[attr]
			if label == "" {
				label = attr
			}
			return fmt.Sprintf("ما هي %s لتخصص %s؟", label, ctx.CurrentSubject)
		}
		return fmt.Sprintf("What is the %s for %s?", attr, ctx.CurrentSubject)
	}

	// Rule 2: canonical continuation phrase. Expand against what the
	// assistant just said, then the subject, then the topic.
	if e.lex.MatchesContinuation(text) {
		target := ""
		switch {
		case len(ctx.LastResponseTopics) > 0:
			target = ctx.LastResponseTopics[0]
		case ctx.CurrentSubject != "":
			target = ctx.CurrentSubject
		case ctx.CurrentTopic != "":
			target = ctx.CurrentTopic
		}

		if ctx.Language == types.LanguageArabic {
			if target != "" {
				return fmt.Sprintf("تابع تقديم المعلومات عن %s وقدم المزيد من التفاصيل عما ذكرته للتو.", target)
			}
			return "أكمل إجابتك السابقة بمزيد من التفاصيل."
		}
		if target != "" {
			return fmt.Sprintf("Continue providing information about %s. Provide more details about what you just mentioned.", target)
		}
		return "Continue your previous answer and provide more details."
	}

	// Rule 3: nothing to add.
	return text
}
