package engine

import (
	"container/list"
	"time"

	"github.com/campusbot/converse/pkg/types"
)

// ContextStore owns one ConversationContext per conversation id. Contexts
// are created lazily on first reference, refreshed on every access, and
// evicted by TTL or by LRU order once the store exceeds its capacity.
//
// Eviction runs opportunistically on access rather than on a background
// timer, so it can never race with a read. The store itself is not
// goroutine-safe; the engine serializes access to it.
type ContextStore struct {
	contexts map[string]*storeEntry
	order    *list.List // front = most recently used
	capacity int
	ttl      time.Duration

	ttlEvictions      int
	capacityEvictions int
}

type storeEntry struct {
	ctx     *types.ConversationContext
	element *list.Element
}

// StoreStats reports store occupancy and eviction counters.
type StoreStats struct {
	Live              int `json:"live"`
	TTLEvictions      int `json:"ttl_evictions"`
	CapacityEvictions int `json:"capacity_evictions"`
}

// NewContextStore creates a store with the given capacity and TTL.
func NewContextStore(capacity int, ttl time.Duration) *ContextStore {
	return &ContextStore{
		contexts: make(map[string]*storeEntry),
		order:    list.New(),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Get returns the context for the conversation id, creating it lazily.
// The returned context is touched before any eviction is considered, so a
// context that is mid-use can never be evicted out from under its caller.
func (s *ContextStore) Get(conversationID string) *types.ConversationContext {
	s.sweepExpired()

	if entry, ok := s.contexts[conversationID]; ok {
		if s.expired(entry.ctx) {
			s.remove(entry)
			s.ttlEvictions++
		} else {
			entry.ctx.Touch()
			s.order.MoveToFront(entry.element)
			return entry.ctx
		}
	}

	ctx := types.NewConversationContext(conversationID)
	entry := &storeEntry{ctx: ctx}
	entry.element = s.order.PushFront(entry)
	s.contexts[conversationID] = entry

	for len(s.contexts) > s.capacity {
		s.evictOldest()
	}

	return ctx
}

// Peek returns the context without creating one and without refreshing its
// recency. An expired context is removed and reported as absent.
func (s *ContextStore) Peek(conversationID string) (*types.ConversationContext, bool) {
	entry, ok := s.contexts[conversationID]
	if !ok {
		return nil, false
	}
	if s.expired(entry.ctx) {
		s.remove(entry)
		s.ttlEvictions++
		return nil, false
	}
	return entry.ctx, true
}

// Put inserts a hydrated context, replacing any existing one for the same id.
func (s *ContextStore) Put(ctx *types.ConversationContext) {
	if existing, ok := s.contexts[ctx.ConversationID]; ok {
		s.remove(existing)
	}
	entry := &storeEntry{ctx: ctx}
	entry.element = s.order.PushFront(entry)
	s.contexts[ctx.ConversationID] = entry

	for len(s.contexts) > s.capacity {
		s.evictOldest()
	}
}

// Delete drops a conversation's context. It reports whether one existed.
func (s *ContextStore) Delete(conversationID string) bool {
	entry, ok := s.contexts[conversationID]
	if !ok {
		return false
	}
	s.remove(entry)
	return true
}

// Len returns the number of live contexts.
func (s *ContextStore) Len() int {
	return len(s.contexts)
}

// Stats returns occupancy and eviction counters.
func (s *ContextStore) Stats() StoreStats {
	return StoreStats{
		Live:              len(s.contexts),
		TTLEvictions:      s.ttlEvictions,
		CapacityEvictions: s.capacityEvictions,
	}
}

// sweepExpired removes expired contexts starting from the LRU end. The scan
// stops at the first live entry: recency order means everything in front of
// it is younger.
func (s *ContextStore) sweepExpired() {
	for {
		back := s.order.Back()
		if back == nil {
			return
		}
		entry := back.Value.(*storeEntry)
		if !s.expired(entry.ctx) {
			return
		}
		s.remove(entry)
		s.ttlEvictions++
	}
}

// evictOldest removes the least-recently-used context.
func (s *ContextStore) evictOldest() {
	back := s.order.Back()
	if back == nil {
		return
	}
	s.remove(back.Value.(*storeEntry))
	s.capacityEvictions++
}

func (s *ContextStore) remove(entry *storeEntry) {
	s.order.Remove(entry.element)
	delete(s.contexts, entry.ctx.ConversationID)
}

func (s *ContextStore) expired(ctx *types.ConversationContext) bool {
	return time.Since(ctx.LastInteractionAt) > s.ttl
}
