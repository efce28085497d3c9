package engine

import (
	"github.com/campusbot/converse/pkg/types"
)

// Serialize flattens a conversation's context into a ContextRecord for an
// external persistence layer. The engine does not decide when to persist;
// the host calls this at whatever cadence it likes. Returns false when the
// conversation is unknown or expired.
func (e *Engine) Serialize(conversationID string) (*types.ContextRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, ok := e.store.Peek(conversationID)
	if !ok {
		return nil, false
	}

	record := &types.ContextRecord{
		ConversationID:     ctx.ConversationID,
		Language:           ctx.Language,
		Subject:            ctx.CurrentSubject,
		Topic:              ctx.CurrentTopic,
		FollowUpCount:      ctx.FollowUpCount,
		ContextConfidence:  ctx.ContextConfidence,
		Numbers:            sortedNumberPairs(ctx.LastNumbers),
		Entities:           append([]string(nil), ctx.LastEntities...),
		Attributes:         append([]string(nil), ctx.LastDiscussedAttributes...),
		ActiveTopics:       append([]types.ActiveTopic(nil), ctx.ActiveTopics...),
		TopicTransitions:   append([]types.TopicTransition(nil), ctx.TopicTransitions...),
		State:              ctx.State,
		StateHistory:       append([]types.StateTransition(nil), ctx.StateHistory...),
		LastResponseTopics: append([]string(nil), ctx.LastResponseTopics...),
		UserTurns:          ctx.UserTurns,
		CreatedAt:          ctx.CreatedAt,
		LastInteractionAt:  ctx.LastInteractionAt,
	}
	return record, true
}

// Hydrate restores a conversation context from a persisted record, replacing
// any live context for the same id. A record whose last interaction is
// already past the TTL hydrates and is then evicted on next access, which
// matches the fresh-context-after-timeout rule.
func (e *Engine) Hydrate(record *types.ContextRecord) {
	if record == nil || record.ConversationID == "" {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := types.NewConversationContext(record.ConversationID)
	ctx.Language = record.Language
	if ctx.Language == "" {
		ctx.Language = types.LanguageEnglish
	}
	ctx.CurrentSubject = record.Subject
	ctx.CurrentTopic = record.Topic
	ctx.FollowUpCount = record.FollowUpCount
	ctx.ContextConfidence = record.ContextConfidence
	for _, pair := range record.Numbers {
		ctx.RecordNumber(types.NumberKey(pair.Key), pair.Value)
	}
	ctx.LastEntities = append([]string(nil), record.Entities...)
	ctx.LastDiscussedAttributes = append([]string(nil), record.Attributes...)
	ctx.ActiveTopics = append([]types.ActiveTopic(nil), record.ActiveTopics...)
	ctx.TopicTransitions = append([]types.TopicTransition(nil), record.TopicTransitions...)
	if record.State != "" {
		ctx.State = record.State
	}
	ctx.StateHistory = append([]types.StateTransition(nil), record.StateHistory...)
	ctx.LastResponseTopics = append([]string(nil), record.LastResponseTopics...)
	ctx.UserTurns = record.UserTurns
	if !record.CreatedAt.IsZero() {
		ctx.CreatedAt = record.CreatedAt
	}
	if !record.LastInteractionAt.IsZero() {
		ctx.LastInteractionAt = record.LastInteractionAt
	}

	e.store.Put(ctx)
}
