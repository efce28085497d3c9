// Package engine provides the conversational context engine: a bounded store
// of per-conversation contexts and the update pipeline that mutates them on
// every inbound and outbound message. The engine is the only writer of
// ConversationContext values; everything else consumes snapshots.
package engine

import (
	"fmt"
	"time"

	"github.com/campusbot/converse/internal/classify"
	"github.com/campusbot/converse/internal/followup"
)

// Config holds configuration for the context engine.
type Config struct {
	// ContextTTL is the inactivity window after which a context is
	// evicted (default: 30m).
	ContextTTL time.Duration

	// MaxContexts is the capacity bound of the store; the oldest context
	// by last interaction is evicted first (default: 50).
	MaxContexts int

	// SubjectAdoptConfidence is the confidence at which a newly
	// classified subject replaces the current one (default: 0.6).
	SubjectAdoptConfidence float64

	// SubjectFillConfidence is the confidence at which a new subject is
	// adopted when no current subject exists (default: 0.4). The subject
	// classifier already discards matches below
	// classify.MinSubjectConfidence, so values under that floor are
	// rejected by Validate rather than silently having no effect.
	SubjectFillConfidence float64

	// FollowUp holds the follow-up signal weights and decision bounds.
	FollowUp followup.Weights
}

// DefaultConfig returns a Config with the tuned defaults.
func DefaultConfig() Config {
	return Config{
		ContextTTL:             30 * time.Minute,
		MaxContexts:            50,
		SubjectAdoptConfidence: 0.6,
		SubjectFillConfidence:  0.4,
		FollowUp:               followup.DefaultWeights(),
	}
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.ContextTTL <= 0 {
		return fmt.Errorf("ContextTTL must be > 0, got %v", c.ContextTTL)
	}

	if c.MaxContexts < 1 {
		return fmt.Errorf("MaxContexts must be >= 1, got %d", c.MaxContexts)
	}

	if c.SubjectAdoptConfidence <= 0 || c.SubjectAdoptConfidence > 1 {
		return fmt.Errorf("SubjectAdoptConfidence must be in (0,1], got %f", c.SubjectAdoptConfidence)
	}

	if c.SubjectFillConfidence <= 0 || c.SubjectFillConfidence > c.SubjectAdoptConfidence {
		return fmt.Errorf("SubjectFillConfidence must be in (0,%f], got %f", c.SubjectAdoptConfidence, c.SubjectFillConfidence)
	}

	if c.SubjectFillConfidence < classify.MinSubjectConfidence {
		return fmt.Errorf("SubjectFillConfidence must be >= the classifier floor %v, got %f", classify.MinSubjectConfidence, c.SubjectFillConfidence)
	}

	if c.FollowUp.MaxScore <= 0 || c.FollowUp.Threshold <= 0 {
		return fmt.Errorf("follow-up MaxScore and Threshold must be > 0")
	}

	return nil
}
