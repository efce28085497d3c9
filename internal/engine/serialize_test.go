package engine

import (
	"testing"

	"github.com/campusbot/converse/pkg/types"
)

// TestSerializeHydrate_RoundTrip verifies a serialized conversation restores
// into an equivalent live context, across engine instances.
func TestSerializeHydrate_RoundTrip(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "How much does Computer Science cost?")
	eng.OnUserMessage("c1", "What about Engineering?")
	eng.OnAssistantMessage("c1", "# Fees\nEngineering tuition is 90 JD per credit hour.")

	record, ok := eng.Serialize("c1")
	if !ok {
		t.Fatal("Serialize must find the conversation")
	}
	if record.Subject != "Engineering" || record.Topic != "fees" {
		t.Fatalf("record = %+v", record)
	}

	restored := newTestEngine(t)
	restored.Hydrate(record)

	snap := restored.Snapshot("c1")
	if snap.Subject != "Engineering" || snap.Topic != "fees" {
		t.Errorf("hydrated snapshot = %+v", snap)
	}
	if snap.Language != types.LanguageEnglish {
		t.Errorf("language = %s", snap.Language)
	}

	debug := restored.Debug("c1")
	if debug.UserTurns != 2 {
		t.Errorf("UserTurns = %d, want 2", debug.UserTurns)
	}
	if len(debug.LastResponseTopics) == 0 {
		t.Error("response topics lost in round trip")
	}

	// The hydrated conversation keeps behaving: a continuation is still a
	// follow-up against the restored context.
	restored.OnUserMessage("c1", "tell me more")
	if !restored.Snapshot("c1").IsFollowUp {
		t.Error("continuation after hydration must be a follow-up")
	}
}

func TestSerialize_UnknownConversation(t *testing.T) {
	eng := newTestEngine(t)
	if _, ok := eng.Serialize("ghost"); ok {
		t.Error("Serialize must report an unknown conversation")
	}
}

// TestHydrate_IgnoresEmptyRecord verifies nil and id-less records are ignored.
func TestHydrate_IgnoresEmptyRecord(t *testing.T) {
	eng := newTestEngine(t)

	eng.Hydrate(nil)
	eng.Hydrate(&types.ContextRecord{})
	if eng.Stats().Live != 0 {
		t.Errorf("Live = %d, want 0", eng.Stats().Live)
	}
}
