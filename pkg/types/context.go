// Package types defines the shared data model for the Converse context engine.
// The central type is ConversationContext: one mutable record per conversation
// that tracks the academic subject, functional topic, extracted entities and
// numbers, and the discourse state of a bilingual chat session.
package types

import "time"

// Language identifies the script of a message or conversation.
type Language string

const (
	// LanguageEnglish is the default language for new conversations.
	LanguageEnglish Language = "en"

	// LanguageArabic is selected when Arabic script dominates the input.
	LanguageArabic Language = "ar"
)

// ConversationState is the discourse state of a conversation.
// States advance as the user narrows from nothing to a subject to a topic,
// and branch into follow_up/clarification for turns that only make sense
// against prior context.
type ConversationState string

const (
	StateInitial         ConversationState = "initial"
	StateSubjectSelected ConversationState = "subject_selected"
	StateTopicFocused    ConversationState = "topic_focused"
	StateFollowUp        ConversationState = "follow_up"
	StateClarification   ConversationState = "clarification"
)

// NumberKey is the semantic category of an extracted numeric value.
type NumberKey string

const (
	NumberFee      NumberKey = "fee"
	NumberAverage  NumberKey = "average"
	NumberCredits  NumberKey = "credits"
	NumberDuration NumberKey = "duration"
	NumberCourses  NumberKey = "courses"
)

// ActiveTopic is one entry of the recency-ranked working set of topics.
type ActiveTopic struct {
	Name            string    `json:"name"`
	LastDiscussedAt time.Time `json:"last_discussed_at"`
	Attributes      []string  `json:"attributes,omitempty"`
	RelatedQueries  []string  `json:"related_queries,omitempty"`
}

// TopicTransition is one entry of the append-only topic transition log.
type TopicTransition struct {
	From              string    `json:"from"`
	To                string    `json:"to"`
	Timestamp         time.Time `json:"timestamp"`
	CarriedAttributes []string  `json:"carried_attributes,omitempty"`
}

// StateTransition records an actual change of ConversationState.
// No-op evaluations are never logged.
type StateTransition struct {
	From      ConversationState `json:"from"`
	To        ConversationState `json:"to"`
	Timestamp time.Time         `json:"timestamp"`
	Trigger   string            `json:"trigger,omitempty"` // message that caused the change
}

// Bounds for the capped collections on ConversationContext.
const (
	MaxActiveTopics   = 10 // working set of topics
	MaxEntities       = 20 // free-text entity strings
	MaxResponseTopics = 5  // topics scanned out of assistant replies
)

// ConversationContext is the per-conversation working memory of the engine.
// It is owned exclusively by the context store and mutated only by the update
// engine; everything else sees read-only snapshots.
type ConversationContext struct {
	// ConversationID is the opaque key for this conversation.
	ConversationID string `json:"conversation_id"`

	// Language is sticky: it changes only when the detector disagrees
	// with the stored value unambiguously.
	Language Language `json:"language"`

	// CurrentSubject is the academic major under discussion ("" = none).
	CurrentSubject string `json:"current_subject,omitempty"`

	// CurrentTopic is the functional category under discussion ("" = none).
	CurrentTopic string `json:"current_topic,omitempty"`

	// FollowUpCount increments once per user message and resets to zero
	// when the subject changes with high confidence.
	FollowUpCount int `json:"follow_up_count"`

	// ContextConfidence is a smoothed [0,1] measure of how strongly the
	// current turn connects to the established context. It is recomputed
	// every turn and can fall when continuity signals disappear.
	ContextConfidence float64 `json:"context_confidence"`

	// LastNumbers maps a semantic key to the most recently seen value.
	LastNumbers map[NumberKey]float64 `json:"last_numbers,omitempty"`

	// LastEntities holds entity strings in insertion order, oldest first.
	// Bounded by MaxEntities; the oldest entry is evicted on overflow.
	LastEntities []string `json:"last_entities,omitempty"`

	// LastDiscussedAttributes are the attribute categories mentioned in
	// the most recent turns, used for carryover across subject switches.
	LastDiscussedAttributes []string `json:"last_discussed_attributes,omitempty"`

	// ActiveTopics is the recency-ranked working set (most recent first).
	// Bounded by MaxActiveTopics; the least-recent entry is evicted.
	ActiveTopics []ActiveTopic `json:"active_topics,omitempty"`

	// TopicTransitions is the append-only transition log.
	TopicTransitions []TopicTransition `json:"topic_transitions,omitempty"`

	// State and its transition history.
	State        ConversationState `json:"state"`
	StateHistory []StateTransition `json:"state_history,omitempty"`

	// LastResponseTopics are topics scanned out of the most recent
	// assistant reply, used to expand bare continuations.
	LastResponseTopics []string `json:"last_response_topics,omitempty"`

	// UserTurns counts user messages seen. A conversation's first user
	// message is never a follow-up.
	UserTurns int `json:"user_turns"`

	// LastFollowUp mirrors the most recent follow-up decision so that
	// snapshots can report it without re-running the classifier.
	LastFollowUp           bool    `json:"last_follow_up"`
	LastFollowUpConfidence float64 `json:"last_follow_up_confidence"`

	CreatedAt         time.Time `json:"created_at"`
	LastInteractionAt time.Time `json:"last_interaction_at"`
}

// NewConversationContext returns a fresh context in the initial state.
func NewConversationContext(conversationID string) *ConversationContext {
	now := time.Now()
	return &ConversationContext{
		ConversationID:    conversationID,
		Language:          LanguageEnglish,
		State:             StateInitial,
		LastNumbers:       make(map[NumberKey]float64),
		CreatedAt:         now,
		LastInteractionAt: now,
	}
}

// Touch refreshes the interaction timestamp.
func (c *ConversationContext) Touch() {
	c.LastInteractionAt = time.Now()
}

// RecordNumber overwrites the stored value for a semantic key.
// The most recent occurrence is authoritative.
func (c *ConversationContext) RecordNumber(key NumberKey, value float64) {
	if c.LastNumbers == nil {
		c.LastNumbers = make(map[NumberKey]float64)
	}
	c.LastNumbers[key] = value
}

// AddEntity inserts an entity string with bounded capacity. A duplicate is
// moved to the most-recent position instead of being inserted twice; on
// overflow the oldest entry is evicted. Order is never shuffled otherwise.
func (c *ConversationContext) AddEntity(entity string) {
	for i, e := range c.LastEntities {
		if e == entity {
			c.LastEntities = append(c.LastEntities[:i], c.LastEntities[i+1:]...)
			c.LastEntities = append(c.LastEntities, entity)
			return
		}
	}
	c.LastEntities = append(c.LastEntities, entity)
	if len(c.LastEntities) > MaxEntities {
		c.LastEntities = c.LastEntities[len(c.LastEntities)-MaxEntities:]
	}
}

// TouchTopic moves a topic to the front of the working set, creating it if
// needed and merging the given attributes. The least-recent entry is evicted
// when the set exceeds MaxActiveTopics.
func (c *ConversationContext) TouchTopic(name string, attributes []string) {
	now := time.Now()
	for i := range c.ActiveTopics {
		if c.ActiveTopics[i].Name == name {
			topic := c.ActiveTopics[i]
			topic.LastDiscussedAt = now
			topic.Attributes = mergeStrings(topic.Attributes, attributes)
			c.ActiveTopics = append(c.ActiveTopics[:i], c.ActiveTopics[i+1:]...)
			c.ActiveTopics = append([]ActiveTopic{topic}, c.ActiveTopics...)
			return
		}
	}
	topic := ActiveTopic{
		Name:            name,
		LastDiscussedAt: now,
		Attributes:      mergeStrings(nil, attributes),
	}
	c.ActiveTopics = append([]ActiveTopic{topic}, c.ActiveTopics...)
	if len(c.ActiveTopics) > MaxActiveTopics {
		c.ActiveTopics = c.ActiveTopics[:MaxActiveTopics]
	}
}

// SetAttributes replaces the last-discussed attribute set, preserving order
// and dropping duplicates.
func (c *ConversationContext) SetAttributes(attributes []string) {
	c.LastDiscussedAttributes = mergeStrings(nil, attributes)
}

// TransitionState moves to a new state and logs the change. A transition to
// the current state is a no-op and is not logged.
func (c *ConversationContext) TransitionState(to ConversationState, trigger string) {
	if c.State == to {
		return
	}
	c.StateHistory = append(c.StateHistory, StateTransition{
		From:      c.State,
		To:        to,
		Timestamp: time.Now(),
		Trigger:   trigger,
	})
	c.State = to
}

// RecordTopicTransition appends to the transition log.
func (c *ConversationContext) RecordTopicTransition(from, to string, carried []string) {
	c.TopicTransitions = append(c.TopicTransitions, TopicTransition{
		From:              from,
		To:                to,
		Timestamp:         time.Now(),
		CarriedAttributes: mergeStrings(nil, carried),
	})
}

// mergeStrings appends items from extra that are not already in base,
// preserving order.
func mergeStrings(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]bool, len(base)+len(extra))
	for _, s := range base {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range extra {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
