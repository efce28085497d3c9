package types

import "time"

// ContextSnapshot is the read-only view of a conversation that travels with
// outbound assistant API requests. It carries only the fields the remote
// assistant needs to answer a context-dependent question.
type ContextSnapshot struct {
	ConversationID string             `json:"conversation_id"`
	Subject        string             `json:"subject,omitempty"`
	Topic          string             `json:"topic,omitempty"`
	IsFollowUp     bool               `json:"is_follow_up"`
	Confidence     float64            `json:"confidence"`
	Language       Language           `json:"language"`
	LastNumbers    map[string]float64 `json:"last_numbers,omitempty"`
	LastEntities   []string           `json:"last_entities,omitempty"`
}

// NumberPair is one flattened entry of the LastNumbers map.
// Persistence records avoid map types so that stored payloads have a stable
// field order across encoders.
type NumberPair struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// ContextRecord is the serializable form of a ConversationContext.
// Maps and sets are flattened to ordered slices; the engine exposes a
// matching Serialize/Hydrate pair and the host decides when to persist.
type ContextRecord struct {
	ConversationID     string            `json:"conversation_id"`
	Language           Language          `json:"language"`
	Subject            string            `json:"subject,omitempty"`
	Topic              string            `json:"topic,omitempty"`
	FollowUpCount      int               `json:"follow_up_count"`
	ContextConfidence  float64           `json:"context_confidence"`
	Numbers            []NumberPair      `json:"numbers,omitempty"`
	Entities           []string          `json:"entities,omitempty"`
	Attributes         []string          `json:"attributes,omitempty"`
	ActiveTopics       []ActiveTopic     `json:"active_topics,omitempty"`
	TopicTransitions   []TopicTransition `json:"topic_transitions,omitempty"`
	State              ConversationState `json:"state"`
	StateHistory       []StateTransition `json:"state_history,omitempty"`
	LastResponseTopics []string          `json:"last_response_topics,omitempty"`
	UserTurns          int               `json:"user_turns"`
	CreatedAt          time.Time         `json:"created_at"`
	LastInteractionAt  time.Time         `json:"last_interaction_at"`
}
