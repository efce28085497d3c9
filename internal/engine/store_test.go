package engine

import (
	"fmt"
	"testing"
	"time"
)

func TestContextStore_LazyCreate(t *testing.T) {
	store := NewContextStore(10, time.Minute)

	ctx := store.Get("conv-1")
	if ctx == nil || ctx.ConversationID != "conv-1" {
		t.Fatalf("Get must create a context, got %+v", ctx)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}

	// Second Get returns the same instance.
	if store.Get("conv-1") != ctx {
		t.Error("Get must return the existing context")
	}
}

func TestContextStore_PeekDoesNotCreate(t *testing.T) {
	store := NewContextStore(10, time.Minute)

	if _, ok := store.Peek("missing"); ok {
		t.Error("Peek must not report a missing context")
	}
	if store.Len() != 0 {
		t.Errorf("Peek must not create, Len = %d", store.Len())
	}
}

// TestContextStore_CapacityEviction verifies LRU eviction at capacity: after
// 55 distinct conversations on a 50-slot store, the 5 oldest are gone and the
// newest survive.
func TestContextStore_CapacityEviction(t *testing.T) {
	store := NewContextStore(50, time.Hour)

	for i := 0; i < 55; i++ {
		store.Get(fmt.Sprintf("conv-%d", i))
	}

	if store.Len() != 50 {
		t.Fatalf("Len = %d, want 50", store.Len())
	}
	for i := 0; i < 5; i++ {
		if _, ok := store.Peek(fmt.Sprintf("conv-%d", i)); ok {
			t.Errorf("conv-%d should have been evicted", i)
		}
	}
	for i := 5; i < 55; i++ {
		if _, ok := store.Peek(fmt.Sprintf("conv-%d", i)); !ok {
			t.Errorf("conv-%d should still be live", i)
		}
	}

	stats := store.Stats()
	if stats.CapacityEvictions != 5 {
		t.Errorf("CapacityEvictions = %d, want 5", stats.CapacityEvictions)
	}
}

// TestContextStore_TouchProtectsFromEviction verifies that re-accessing an
// old conversation moves it to the front so it outlives younger idle ones.
func TestContextStore_TouchProtectsFromEviction(t *testing.T) {
	store := NewContextStore(3, time.Hour)

	store.Get("a")
	store.Get("b")
	store.Get("c")
	store.Get("a") // refresh the oldest
	store.Get("d") // evicts b, not a

	if _, ok := store.Peek("a"); !ok {
		t.Error("a was refreshed and must survive")
	}
	if _, ok := store.Peek("b"); ok {
		t.Error("b was the LRU entry and must be evicted")
	}
}

// TestContextStore_TTLExpiry verifies an idle context expires and a later
// access yields a fresh one.
func TestContextStore_TTLExpiry(t *testing.T) {
	store := NewContextStore(10, 30*time.Millisecond)

	ctx := store.Get("conv-1")
	ctx.CurrentSubject = "Medicine"

	time.Sleep(50 * time.Millisecond)

	if _, ok := store.Peek("conv-1"); ok {
		t.Fatal("expired context must not be visible")
	}

	fresh := store.Get("conv-1")
	if fresh.CurrentSubject != "" {
		t.Errorf("post-expiry context must be fresh, got subject %q", fresh.CurrentSubject)
	}
	if store.Stats().TTLEvictions == 0 {
		t.Error("TTL eviction counter must advance")
	}
}

func TestContextStore_Delete(t *testing.T) {
	store := NewContextStore(10, time.Minute)

	store.Get("conv-1")
	if !store.Delete("conv-1") {
		t.Error("Delete must report an existing context")
	}
	if store.Delete("conv-1") {
		t.Error("Delete must report a missing context")
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d, want 0", store.Len())
	}
}
