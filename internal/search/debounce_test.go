package search

import (
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, text)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func TestOnlyLastTriggerInQuietWindowFires(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(40*time.Millisecond, rec.record)
	defer d.Stop()

	for _, text := range []string{"f", "fr", "fre", "free", "freez"} {
		d.Trigger(text)
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(rec.snapshot()) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	// Give a superseded timer a chance to misfire before checking.
	time.Sleep(60 * time.Millisecond)

	calls := rec.snapshot()
	if len(calls) != 1 {
		t.Fatalf("fired %d times, want exactly once: %v", len(calls), calls)
	}
	if calls[0] != "freez" {
		t.Fatalf("fired with %q, want final text", calls[0])
	}
}

func TestStopCancelsPendingCall(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, rec.record)
	d.Trigger("pending")
	d.Stop()

	time.Sleep(80 * time.Millisecond)
	if calls := rec.snapshot(); len(calls) != 0 {
		t.Fatalf("stopped debouncer still fired: %v", calls)
	}

	// Triggers after Stop are rejected too.
	d.Trigger("late")
	time.Sleep(80 * time.Millisecond)
	if calls := rec.snapshot(); len(calls) != 0 {
		t.Fatalf("trigger after stop fired: %v", calls)
	}
}

func TestStopIsSafeFromEveryExitPath(t *testing.T) {
	// A screen with several ways out may stop the same debouncer more than
	// once; none of them may fire the pending call.
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, rec.record)
	d.Trigger("pending")
	d.Stop()
	d.Stop()

	time.Sleep(80 * time.Millisecond)
	if calls := rec.snapshot(); len(calls) != 0 {
		t.Fatalf("stopped debouncer fired: %v", calls)
	}
}

func TestSeparatedTriggersEachFire(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)
	defer d.Stop()

	d.Trigger("one")
	time.Sleep(60 * time.Millisecond)
	d.Trigger("two")
	time.Sleep(60 * time.Millisecond)

	calls := rec.snapshot()
	if len(calls) != 2 || calls[0] != "one" || calls[1] != "two" {
		t.Fatalf("calls = %v, want [one two]", calls)
	}
}
