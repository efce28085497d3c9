package engine

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/campusbot/converse/pkg/types"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return eng
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxContexts = 0
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

// TestNew_RejectsFillConfidenceBelowClassifierFloor verifies a fill threshold
// under the classifier's own floor fails loudly instead of being silently
// unreachable.
func TestNew_RejectsFillConfidenceBelowClassifierFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SubjectFillConfidence = 0.3
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error for fill confidence below the classifier floor")
	}
}

// TestOnUserMessage_FirstMessageNeverFollowUp covers the hard rule end to
// end, including a first message that is itself a continuation phrase.
func TestOnUserMessage_FirstMessageNeverFollowUp(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "tell me more")
	snap := eng.Snapshot("c1")
	if snap.IsFollowUp {
		t.Error("first message must never be a follow-up")
	}
}

func TestOnUserMessage_SubjectAdoption(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "I want to study Optometry")
	snap := eng.Snapshot("c1")
	if snap.Subject != "Optometry" {
		t.Fatalf("subject = %q, want Optometry", snap.Subject)
	}
	if snap.Language != types.LanguageEnglish {
		t.Errorf("language = %s, want en", snap.Language)
	}
}

func TestOnUserMessage_ArabicSubjectAdoption(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "أدرس تخصص البصريات")
	snap := eng.Snapshot("c1")
	if snap.Subject != "Optometry" {
		t.Fatalf("subject = %q, want Optometry", snap.Subject)
	}
	if snap.Language != types.LanguageArabic {
		t.Errorf("language = %s, want ar", snap.Language)
	}
}

// TestConfidence_NoOverlapCreditOnFirstMessage verifies the entity-overlap
// term of the confidence blend only counts entities known before the current
// message. A first message naming several entities has nothing to overlap
// with, so its confidence is the new-subject share alone.
func TestConfidence_NoOverlapCreditOnFirstMessage(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "Tell me about Computer Science and Business Administration")
	snap := eng.Snapshot("c1")
	if snap.Confidence != 0.2 {
		t.Errorf("confidence = %v, want 0.2 (no overlap with the message's own entities)", snap.Confidence)
	}
}

// TestConfidence_OverlapCreditsPriorEntities verifies the overlap term does
// fire once the entity was established by an earlier turn.
func TestConfidence_OverlapCreditsPriorEntities(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "Tell me about Computer Science")
	eng.OnUserMessage("c1", "Is Computer Science worth studying?")

	// Retained subject 0.4 plus one overlapping entity 0.1.
	snap := eng.Snapshot("c1")
	if math.Abs(snap.Confidence-0.5) > 1e-9 {
		t.Errorf("confidence = %v, want 0.5", snap.Confidence)
	}
}

// TestOnUserMessage_ContinuationOverride verifies a bare "tell me more" after
// an established subject is a high-confidence follow-up that changes nothing.
func TestOnUserMessage_ContinuationOverride(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "Tell me about Computer Science fees")
	eng.OnUserMessage("c1", "tell me more")

	snap := eng.Snapshot("c1")
	if !snap.IsFollowUp {
		t.Fatal("continuation must classify as follow-up")
	}
	if snap.Subject != "Computer Science" {
		t.Errorf("subject = %q, continuation must not change it", snap.Subject)
	}
	if snap.Topic != "fees" {
		t.Errorf("topic = %q, continuation must not change it", snap.Topic)
	}

	debug := eng.Debug("c1")
	if debug.FollowUpCount != 1 {
		t.Errorf("FollowUpCount = %d, want 1", debug.FollowUpCount)
	}
}

// TestOnUserMessage_SubjectSwitchCarriesTopic is the cross-subject carryover
// scenario: asking about fees, then "what about Engineering?" switches the
// subject while the fees topic rides along.
func TestOnUserMessage_SubjectSwitchCarriesTopic(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "How much does Computer Science cost?")
	snap := eng.Snapshot("c1")
	if snap.Subject != "Computer Science" || snap.Topic != "fees" {
		t.Fatalf("setup failed: %+v", snap)
	}

	eng.OnUserMessage("c1", "What about Engineering?")
	snap = eng.Snapshot("c1")
	if snap.Subject != "Engineering" {
		t.Fatalf("subject = %q, want Engineering", snap.Subject)
	}
	if snap.Topic != "fees" {
		t.Errorf("topic = %q, want carried fees", snap.Topic)
	}
	if snap.IsFollowUp {
		t.Error("a subject switch is not a follow-up")
	}

	debug := eng.Debug("c1")
	if debug.FollowUpCount != 0 {
		t.Errorf("FollowUpCount = %d, must reset on subject switch", debug.FollowUpCount)
	}
}

// TestOnUserMessage_SubjectSticksThroughTopicQuestion verifies a subject-less
// question that still speaks the domain's vocabulary keeps the subject, even
// across a language switch.
func TestOnUserMessage_SubjectSticksThroughTopicQuestion(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "I want to study Optometry")
	eng.OnUserMessage("c1", "ما هو نظام العلامات؟")

	snap := eng.Snapshot("c1")
	if snap.Subject != "Optometry" {
		t.Errorf("subject = %q, want Optometry retained", snap.Subject)
	}
	if snap.Topic != "requirements" {
		t.Errorf("topic = %q, want requirements", snap.Topic)
	}
	if snap.Language != types.LanguageArabic {
		t.Errorf("language = %s, want ar after decisive switch", snap.Language)
	}
}

// TestOnUserMessage_SubjectClearedOffDomain verifies a message with no
// subject, no follow-up signal and no domain vocabulary drops the context.
func TestOnUserMessage_SubjectClearedOffDomain(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "I want to study Optometry")
	eng.OnUserMessage("c1", "my cousin is visiting from abroad next week and we are planning a trip")

	snap := eng.Snapshot("c1")
	if snap.Subject != "" {
		t.Errorf("subject = %q, want cleared", snap.Subject)
	}
	if snap.Topic != "" {
		t.Errorf("topic = %q, want cleared", snap.Topic)
	}
}

func TestOnUserMessage_NumberExtraction(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "Pharmacy tuition is 4200 JD with an 80% average required")
	snap := eng.Snapshot("c1")
	if snap.LastNumbers["fee"] != 4200 {
		t.Errorf("fee = %v, want 4200", snap.LastNumbers["fee"])
	}
	if snap.LastNumbers["average"] != 80 {
		t.Errorf("average = %v, want 80", snap.LastNumbers["average"])
	}
}

// TestOnUserMessage_EmptyInput verifies whitespace input resets the follow-up
// flag and changes nothing else.
func TestOnUserMessage_EmptyInput(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "I want to study Medicine")
	before := eng.Snapshot("c1")

	eng.OnUserMessage("c1", "   ")
	after := eng.Snapshot("c1")

	if after.Subject != before.Subject {
		t.Errorf("subject changed on empty input: %q -> %q", before.Subject, after.Subject)
	}
	if after.IsFollowUp {
		t.Error("empty input must not be a follow-up")
	}
}

// TestSnapshot_Idempotent verifies repeated snapshots without an intervening
// message are identical: reading context never mutates it.
func TestSnapshot_Idempotent(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "What are the Dentistry fees?")
	first := eng.Snapshot("c1")
	second := eng.Snapshot("c1")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("snapshots differ:\n%+v\n%+v", first, second)
	}
}

func TestSnapshot_UnknownConversation(t *testing.T) {
	eng := newTestEngine(t)

	snap := eng.Snapshot("ghost")
	if snap.ConversationID != "ghost" {
		t.Errorf("ConversationID = %q", snap.ConversationID)
	}
	if snap.Subject != "" || snap.IsFollowUp || snap.Language != types.LanguageEnglish {
		t.Errorf("unknown conversation must yield an empty snapshot, got %+v", snap)
	}

	// Snapshotting must not have created a context.
	if eng.Stats().Live != 0 {
		t.Errorf("Live = %d, want 0", eng.Stats().Live)
	}
}

// TestEngine_TTLYieldsFreshContext verifies the conversation restarts clean
// after the inactivity window.
func TestEngine_TTLYieldsFreshContext(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ContextTTL = 30 * time.Millisecond
	eng, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	eng.OnUserMessage("c1", "I want to study Optometry")
	time.Sleep(50 * time.Millisecond)

	snap := eng.Snapshot("c1")
	if snap.Subject != "" {
		t.Errorf("subject = %q, want fresh context after TTL", snap.Subject)
	}

	// The next message starts a brand new conversation state.
	eng.OnUserMessage("c1", "tell me more")
	if eng.Snapshot("c1").IsFollowUp {
		t.Error("first message after expiry must not be a follow-up")
	}
}

func TestOnAssistantMessage_RecordsResponseTopics(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "Tell me about Nursing")
	eng.OnAssistantMessage("c1", "# Admission\nYou can apply online.\n\n# Fees\nTuition is 60 JD per credit hour.")

	debug := eng.Debug("c1")
	want := []string{"admission", "fees"}
	if !reflect.DeepEqual(debug.LastResponseTopics[:2], want) {
		t.Errorf("response topics = %v, want prefix %v", debug.LastResponseTopics, want)
	}
}

// TestOnAssistantMessage_NeverTouchesSubject verifies the bot pass is
// read-mostly: subject and topic state belong to the user pass alone.
func TestOnAssistantMessage_NeverTouchesSubject(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "Tell me about Law fees")
	before := eng.Snapshot("c1")

	eng.OnAssistantMessage("c1", "Engineering is also popular. The admission average is 80%.")
	after := eng.Snapshot("c1")

	if after.Subject != before.Subject {
		t.Errorf("bot pass changed subject: %q -> %q", before.Subject, after.Subject)
	}
	if after.Topic != before.Topic {
		t.Errorf("bot pass changed topic: %q -> %q", before.Topic, after.Topic)
	}
}

func TestDrop(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "hello")
	if !eng.Drop("c1") {
		t.Error("Drop must report an existing conversation")
	}
	if eng.Drop("c1") {
		t.Error("Drop must report a missing conversation")
	}
}

// TestStateProgression walks the discourse state machine through its main
// path: initial -> subject -> topic -> follow-up -> clarification.
func TestStateProgression(t *testing.T) {
	eng := newTestEngine(t)

	eng.OnUserMessage("c1", "I want to study Pharmacy")
	if got := eng.Debug("c1").State; got != types.StateSubjectSelected {
		t.Fatalf("state = %s, want subject_selected", got)
	}

	eng.OnUserMessage("c1", "Pharmacy tuition fees please")
	if got := eng.Debug("c1").State; got != types.StateTopicFocused {
		t.Fatalf("state = %s, want topic_focused", got)
	}

	eng.OnUserMessage("c1", "tell me more")
	if got := eng.Debug("c1").State; got != types.StateFollowUp {
		t.Fatalf("state = %s, want follow_up", got)
	}

	eng.OnUserMessage("c1", "what do you mean by that?")
	if got := eng.Debug("c1").State; got != types.StateClarification {
		t.Fatalf("state = %s, want clarification", got)
	}
}
