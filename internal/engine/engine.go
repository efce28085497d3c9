package engine

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/campusbot/converse/internal/classify"
	"github.com/campusbot/converse/internal/extract"
	"github.com/campusbot/converse/internal/followup"
	"github.com/campusbot/converse/internal/lang"
	"github.com/campusbot/converse/internal/lexicon"
	"github.com/campusbot/converse/pkg/types"
)

// Engine is the context update engine. It orchestrates the language
// detector, the subject/topic classifier, the entity/number extractor, and
// the follow-up classifier on every message, mutating the conversation's
// context and recording transitions.
//
// Context mutation is synchronous and serialized: the engine holds one mutex
// so that the multi-goroutine HTTP host still mutates each context one
// message at a time.
type Engine struct {
	mu sync.Mutex

	config     Config
	lex        *lexicon.Lexicon
	store      *ContextStore
	classifier *classify.Classifier
	followups  *followup.Classifier
}

// New creates a context engine. A nil lexicon selects the built-in tables.
func New(config Config, lex *lexicon.Lexicon) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if lex == nil {
		lex = lexicon.Default()
	}

	classifier := classify.New(lex)
	return &Engine{
		config:     config,
		lex:        lex,
		store:      NewContextStore(config.MaxContexts, config.ContextTTL),
		classifier: classifier,
		followups:  followup.New(lex, classifier, config.FollowUp),
	}, nil
}

// turnAnalysis is the read-only classification result for one user message.
// It is computed before any mutation so that a classifier failure leaves the
// prior context untouched.
type turnAnalysis struct {
	language      types.Language
	langDecisive  bool
	followUp      followup.Result
	subject       classify.SubjectMatch
	topic         string
	attributes    []string
	extraction    extract.Result
	clarification bool
	domainVocab   bool
}

// OnUserMessage runs the per-message update procedure for a user message.
func (e *Engine) OnUserMessage(conversationID, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := e.store.Get(conversationID)

	// Malformed input: not a follow-up, no subject/topic change, no error.
	if strings.TrimSpace(text) == "" {
		ctx.LastFollowUp = false
		ctx.LastFollowUpConfidence = 0
		return
	}

	analysis, ok := e.analyzeTurn(ctx, text)
	if !ok {
		// Classification failed; treat as "no new information this turn"
		// and proceed with the raw message.
		return
	}

	e.applyTurn(ctx, text, analysis)
}

// analyzeTurn runs the pure classification phase. Any panic from a regex or
// extractor is caught here, logged, and reported as a failed analysis.
func (e *Engine) analyzeTurn(ctx *types.ConversationContext, text string) (analysis turnAnalysis, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("engine: classification failed for %s: %v", ctx.ConversationID, r)
			ok = false
		}
	}()

	analysis.language, analysis.langDecisive = lang.DetectUnambiguous(text)

	language := ctx.Language
	if analysis.langDecisive {
		language = analysis.language
	}

	analysis.followUp = e.followups.Classify(text, language, ctx)
	analysis.subject = e.classifier.ClassifySubject(text, language)
	analysis.topic = e.classifier.ClassifyTopic(text)
	analysis.attributes = e.classifier.Attributes(text)
	analysis.extraction = extract.Extract(text)
	analysis.clarification = e.lex.MatchesClarification(text)
	analysis.domainVocab = e.classifier.SubjectVocabularyPresent(text, language)

	return analysis, true
}

// applyTurn mutates the context with the analysis of one user message.
func (e *Engine) applyTurn(ctx *types.ConversationContext, text string, a turnAnalysis) {
	// Step 1: sticky language. Only an unambiguous disagreement flips it.
	if a.langDecisive && a.language != ctx.Language {
		ctx.Language = a.language
	}

	ctx.UserTurns++
	ctx.LastFollowUp = a.followUp.IsFollowUp
	ctx.LastFollowUpConfidence = a.followUp.Confidence

	// Attributes discussed before this turn; captured now for carryover.
	carried := append([]string(nil), ctx.LastDiscussedAttributes...)

	subjectChanged := false
	subjectRetained := ctx.CurrentSubject != ""

	if a.followUp.PureContinuation || a.followUp.MaintainSubject {
		// Step 2: pure continuation or strong possessive reference.
		// Preserve subject and topic; a one-word "okay" must not erase
		// established context.
		ctx.FollowUpCount++
	} else {
		// Step 3: subject-update policy.
		subjectChanged = e.updateSubject(ctx, a)
		subjectRetained = ctx.CurrentSubject != "" && !subjectChanged

		// Step 4: topic classification with attribute carryover.
		e.updateTopic(ctx, a, carried, subjectChanged)
	}

	if len(a.attributes) > 0 {
		ctx.SetAttributes(a.attributes)
	}

	// Step 5: merge extractor output. The pre-merge entity set is captured
	// first: the confidence blend must measure overlap with prior turns,
	// not with this message's own entities.
	priorEntities := append([]string(nil), ctx.LastEntities...)
	for _, entity := range a.extraction.Entities {
		ctx.AddEntity(entity)
	}
	for key, value := range a.extraction.Numbers {
		ctx.RecordNumber(key, value)
	}

	// Step 6: recompute context confidence. The blend is recomputed from
	// scratch so the score can fall when continuity signals disappear.
	ctx.ContextConfidence = e.blendConfidence(ctx, a, priorEntities, subjectRetained, subjectChanged)

	// State machine, evaluated once per message.
	ctx.TransitionState(e.nextState(ctx, a), text)

	// Step 7: refresh the interaction timestamp.
	ctx.Touch()
}

// updateSubject applies the subject-update policy and reports whether a new
// subject was adopted.
func (e *Engine) updateSubject(ctx *types.ConversationContext, a turnAnalysis) bool {
	match := a.subject

	switch {
	case match.Subject != "" && match.Subject == ctx.CurrentSubject:
		// Same subject restated: keep it.
		ctx.FollowUpCount++
		return false

	case match.Subject != "" && match.Confidence >= e.config.SubjectAdoptConfidence:
		// Strong new subject starts a new sub-conversation.
		ctx.CurrentSubject = match.Subject
		ctx.FollowUpCount = 0
		return true

	case match.Subject != "" && match.Confidence >= e.config.SubjectFillConfidence && ctx.CurrentSubject == "":
		ctx.CurrentSubject = match.Subject
		ctx.FollowUpCount = 0
		return true

	case match.Subject == "" && a.followUp.IsFollowUp && ctx.CurrentSubject != "":
		// Not finding a new subject is itself evidence of continuity.
		ctx.FollowUpCount++
		return false

	case match.Subject == "" && !a.followUp.IsFollowUp && !a.domainVocab:
		// Nothing ties this message to the academic domain: the subject
		// is lost.
		if ctx.CurrentSubject != "" {
			ctx.CurrentSubject = ""
		}
		ctx.CurrentTopic = ""
		ctx.FollowUpCount = 0
		return false

	default:
		// Subject-less message that still speaks the domain's vocabulary
		// (e.g. a bare topic question): keep what we have.
		if ctx.CurrentSubject != "" {
			ctx.FollowUpCount++
		}
		return false
	}
}

// updateTopic applies topic classification and the attribute-carryover rule:
// when the subject or topic changes while attributes were recently discussed,
// the carried attributes ride along on the transition record and stay live.
// This is what lets "what about for Engineering?" answer about fees without
// the user repeating "fees".
func (e *Engine) updateTopic(ctx *types.ConversationContext, a turnAnalysis, carried []string, subjectChanged bool) {
	switch {
	case a.topic != "":
		if a.topic != ctx.CurrentTopic {
			var carry []string
			if len(carried) > 0 {
				carry = carried
			}
			ctx.RecordTopicTransition(ctx.CurrentTopic, a.topic, carry)
			ctx.CurrentTopic = a.topic
		}
		ctx.TouchTopic(a.topic, a.attributes)

	case subjectChanged && len(carried) > 0:
		// No topic in the message itself; resolve it from the carried
		// attributes so the established question category survives the
		// subject switch.
		topic := carried[0]
		if topic != ctx.CurrentTopic {
			ctx.RecordTopicTransition(ctx.CurrentTopic, topic, carried)
			ctx.CurrentTopic = topic
		}
		ctx.TouchTopic(topic, carried)
		ctx.SetAttributes(carried)
	}
}

// blendConfidence computes the context confidence for this turn:
// subject continuity 40%, topic presence 30%, entity overlap 20% (capped),
// follow-up signal 10%, summed and capped at 1.0. priorEntities is the
// entity set as it stood before this message was merged; overlap with the
// message's own entities must not count.
func (e *Engine) blendConfidence(ctx *types.ConversationContext, a turnAnalysis, priorEntities []string, subjectRetained, subjectChanged bool) float64 {
	confidence := 0.0

	switch {
	case subjectRetained:
		confidence += 0.4
	case subjectChanged:
		// A fresh subject is context, but not continuity.
		confidence += 0.2
	}

	if ctx.CurrentTopic != "" {
		confidence += 0.3
	}

	overlap := 0
	for _, entity := range a.extraction.Entities {
		for _, known := range priorEntities {
			if entity == known {
				overlap++
				break
			}
		}
	}
	entityTerm := 0.1 * float64(overlap)
	if entityTerm > 0.2 {
		entityTerm = 0.2
	}
	confidence += entityTerm

	confidence += 0.1 * a.followUp.Confidence

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// nextState evaluates the state transition rule for this message. The
// clarification and follow-up branches win over the static states; once
// their trigger lapses the state falls back to the most specific context
// still held (topic > subject > none).
func (e *Engine) nextState(ctx *types.ConversationContext, a turnAnalysis) types.ConversationState {
	switch {
	case a.clarification:
		return types.StateClarification
	case a.followUp.IsFollowUp:
		return types.StateFollowUp
	case ctx.CurrentSubject != "" && ctx.CurrentTopic != "":
		return types.StateTopicFocused
	case ctx.CurrentSubject != "":
		return types.StateSubjectSelected
	default:
		return types.StateInitial
	}
}

// OnAssistantMessage runs the lighter bot pass: scan the reply for section
// headings and topic keyword families and record them as the response
// topics, so a subsequent bare "tell me more" can be expanded against what
// the assistant just said. The pass never touches subject state.
func (e *Engine) OnAssistantMessage(conversationID, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := e.store.Get(conversationID)
	if strings.TrimSpace(text) == "" {
		return
	}

	topics := e.scanResponseTopics(text)
	if len(topics) > 0 {
		ctx.LastResponseTopics = topics
	}
}

// scanResponseTopics collects topics from an assistant reply: markdown-style
// headings first, then topic keyword hits, deduplicated and bounded.
func (e *Engine) scanResponseTopics(text string) []string {
	var topics []string
	seen := make(map[string]bool)
	add := func(topic string) {
		if topic != "" && !seen[topic] && len(topics) < types.MaxResponseTopics {
			seen[topic] = true
			topics = append(topics, topic)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		heading := ""
		switch {
		case strings.HasPrefix(trimmed, "#"):
			heading = strings.TrimSpace(strings.TrimLeft(trimmed, "# "))
		case strings.HasPrefix(trimmed, "**") && strings.HasSuffix(trimmed, "**") && len(trimmed) > 4:
			heading = strings.Trim(trimmed, "* ")
		}
		if heading == "" {
			continue
		}
		if topic := e.lex.TopicFor(heading); topic != "" {
			add(topic)
		} else {
			add(heading)
		}
	}

	for _, topic := range e.lex.AttributesIn(text) {
		add(topic)
	}

	return topics
}

// Snapshot returns the read-only view serialized into outbound API request
// metadata. An unknown or expired conversation yields a fresh, empty
// snapshot. Snapshot never mutates the context, so repeated calls without
// an intervening message return identical values.
func (e *Engine) Snapshot(conversationID string) types.ContextSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, ok := e.store.Peek(conversationID)
	if !ok {
		return types.ContextSnapshot{
			ConversationID: conversationID,
			Language:       types.LanguageEnglish,
		}
	}

	numbers := make(map[string]float64, len(ctx.LastNumbers))
	for key, value := range ctx.LastNumbers {
		numbers[string(key)] = value
	}

	return types.ContextSnapshot{
		ConversationID: ctx.ConversationID,
		Subject:        ctx.CurrentSubject,
		Topic:          ctx.CurrentTopic,
		IsFollowUp:     ctx.LastFollowUp,
		Confidence:     ctx.ContextConfidence,
		Language:       ctx.Language,
		LastNumbers:    numbers,
		LastEntities:   append([]string(nil), ctx.LastEntities...),
	}
}

// Drop removes a conversation's context.
func (e *Engine) Drop(conversationID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Delete(conversationID)
}

// Stats reports store occupancy and eviction counters.
func (e *Engine) Stats() StoreStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Stats()
}

// sortedNumberPairs flattens a number map into key-ordered pairs.
func sortedNumberPairs(numbers map[types.NumberKey]float64) []types.NumberPair {
	pairs := make([]types.NumberPair, 0, len(numbers))
	for key, value := range numbers {
		pairs = append(pairs, types.NumberPair{Key: string(key), Value: value})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return pairs
}
