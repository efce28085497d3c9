package assistant

import (
	"sync/atomic"
	"testing"
	"time"
)

// TestDebouncer_CoalescesRapidSubmits verifies only the last of a burst of
// submissions fires.
func TestDebouncer_CoalescesRapidSubmits(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var fired atomic.Int64
	var last atomic.Int64
	for i := 1; i <= 5; i++ {
		i := int64(i)
		d.Submit(func() {
			fired.Add(1)
			last.Store(i)
		})
	}

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("last submission = %d, want 5", got)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var fired atomic.Int64
	d.Submit(func() { fired.Add(1) })
	d.Cancel()

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("fired %d times after Cancel, want 0", got)
	}
}

// TestDebouncer_SeparatePausesFireSeparately verifies submissions spaced past
// the quiet period each fire.
func TestDebouncer_SeparatePausesFireSeparately(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired atomic.Int64
	d.Submit(func() { fired.Add(1) })
	time.Sleep(60 * time.Millisecond)
	d.Submit(func() { fired.Add(1) })
	time.Sleep(60 * time.Millisecond)

	if got := fired.Load(); got != 2 {
		t.Errorf("fired %d times, want 2", got)
	}
}
