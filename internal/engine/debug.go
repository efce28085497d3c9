package engine

import (
	"time"

	"github.com/campusbot/converse/pkg/types"
)

// DebugContext is the read-only diagnostic view of a conversation, surfaced
// to UI debug panels. It exposes the full working set and transition logs
// that the outbound snapshot deliberately omits.
type DebugContext struct {
	Found              bool                    `json:"found"`
	Snapshot           types.ContextSnapshot   `json:"snapshot"`
	State              types.ConversationState `json:"state,omitempty"`
	StateHistory       []types.StateTransition `json:"state_history,omitempty"`
	FollowUpCount      int                     `json:"follow_up_count"`
	UserTurns          int                     `json:"user_turns"`
	Attributes         []string                `json:"attributes,omitempty"`
	ActiveTopics       []types.ActiveTopic     `json:"active_topics,omitempty"`
	TopicTransitions   []types.TopicTransition `json:"topic_transitions,omitempty"`
	LastResponseTopics []string                `json:"last_response_topics,omitempty"`
	CreatedAt          time.Time               `json:"created_at,omitempty"`
	LastInteractionAt  time.Time               `json:"last_interaction_at,omitempty"`
}

// Debug returns the diagnostic view for a conversation. It never mutates
// the context.
func (e *Engine) Debug(conversationID string) DebugContext {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, ok := e.store.Peek(conversationID)
	if !ok {
		return DebugContext{
			Snapshot: types.ContextSnapshot{
				ConversationID: conversationID,
				Language:       types.LanguageEnglish,
			},
		}
	}

	numbers := make(map[string]float64, len(ctx.LastNumbers))
	for key, value := range ctx.LastNumbers {
		numbers[string(key)] = value
	}

	return DebugContext{
		Found: true,
		Snapshot: types.ContextSnapshot{
			ConversationID: ctx.ConversationID,
			Subject:        ctx.CurrentSubject,
			Topic:          ctx.CurrentTopic,
			IsFollowUp:     ctx.LastFollowUp,
			Confidence:     ctx.ContextConfidence,
			Language:       ctx.Language,
			LastNumbers:    numbers,
			LastEntities:   append([]string(nil), ctx.LastEntities...),
		},
		State:              ctx.State,
		StateHistory:       append([]types.StateTransition(nil), ctx.StateHistory...),
		FollowUpCount:      ctx.FollowUpCount,
		UserTurns:          ctx.UserTurns,
		Attributes:         append([]string(nil), ctx.LastDiscussedAttributes...),
		ActiveTopics:       append([]types.ActiveTopic(nil), ctx.ActiveTopics...),
		TopicTransitions:   append([]types.TopicTransition(nil), ctx.TopicTransitions...),
		LastResponseTopics: append([]string(nil), ctx.LastResponseTopics...),
		CreatedAt:          ctx.CreatedAt,
		LastInteractionAt:  ctx.LastInteractionAt,
	}
}
