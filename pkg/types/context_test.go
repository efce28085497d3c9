package types

import (
	"fmt"
	"testing"
)

func TestAddEntity_DuplicateMovesToEnd(t *testing.T) {
	ctx := NewConversationContext("c1")
	ctx.AddEntity("Computer Science")
	ctx.AddEntity("Engineering")
	ctx.AddEntity("Computer Science")

	if len(ctx.LastEntities) != 2 {
		t.Fatalf("entities = %v", ctx.LastEntities)
	}
	if ctx.LastEntities[1] != "Computer Science" {
		t.Errorf("duplicate must move to the most-recent position, got %v", ctx.LastEntities)
	}
}

func TestAddEntity_EvictsOldest(t *testing.T) {
	ctx := NewConversationContext("c1")
	for i := 0; i < MaxEntities+3; i++ {
		ctx.AddEntity(fmt.Sprintf("entity-%d", i))
	}

	if len(ctx.LastEntities) != MaxEntities {
		t.Fatalf("len = %d, want %d", len(ctx.LastEntities), MaxEntities)
	}
	if ctx.LastEntities[0] != "entity-3" {
		t.Errorf("oldest surviving entity = %q, want entity-3", ctx.LastEntities[0])
	}
}

func TestTouchTopic_MovesToFrontAndMergesAttributes(t *testing.T) {
	ctx := NewConversationContext("c1")
	ctx.TouchTopic("fees", []string{"fees"})
	ctx.TouchTopic("admission", nil)
	ctx.TouchTopic("fees", []string{"requirements"})

	if ctx.ActiveTopics[0].Name != "fees" {
		t.Fatalf("front topic = %q, want fees", ctx.ActiveTopics[0].Name)
	}
	attrs := ctx.ActiveTopics[0].Attributes
	if len(attrs) != 2 || attrs[0] != "fees" || attrs[1] != "requirements" {
		t.Errorf("merged attributes = %v", attrs)
	}
}

func TestTouchTopic_CapsWorkingSet(t *testing.T) {
	ctx := NewConversationContext("c1")
	for i := 0; i < MaxActiveTopics+2; i++ {
		ctx.TouchTopic(fmt.Sprintf("topic-%d", i), nil)
	}
	if len(ctx.ActiveTopics) != MaxActiveTopics {
		t.Errorf("len = %d, want %d", len(ctx.ActiveTopics), MaxActiveTopics)
	}
	if ctx.ActiveTopics[0].Name != fmt.Sprintf("topic-%d", MaxActiveTopics+1) {
		t.Errorf("front topic = %q", ctx.ActiveTopics[0].Name)
	}
}

// TestTransitionState_NoOpNotLogged verifies re-entering the current state
// leaves the history untouched.
func TestTransitionState_NoOpNotLogged(t *testing.T) {
	ctx := NewConversationContext("c1")
	ctx.TransitionState(StateSubjectSelected, "first")
	ctx.TransitionState(StateSubjectSelected, "again")

	if len(ctx.StateHistory) != 1 {
		t.Fatalf("history = %v", ctx.StateHistory)
	}
	if ctx.StateHistory[0].From != StateInitial || ctx.StateHistory[0].To != StateSubjectSelected {
		t.Errorf("transition = %+v", ctx.StateHistory[0])
	}
}

func TestSetAttributes_Deduplicates(t *testing.T) {
	ctx := NewConversationContext("c1")
	ctx.SetAttributes([]string{"fees", "fees", "", "duration"})

	if len(ctx.LastDiscussedAttributes) != 2 {
		t.Fatalf("attributes = %v", ctx.LastDiscussedAttributes)
	}
	if ctx.LastDiscussedAttributes[0] != "fees" || ctx.LastDiscussedAttributes[1] != "duration" {
		t.Errorf("attributes = %v", ctx.LastDiscussedAttributes)
	}
}
