package testutil

import (
	"slices"
	"sync"
	"testing"
	"time"
)

func TestHooksRecorderStatusesPerOperation(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("Feed.Swipe.Like", "success", time.Millisecond)
	h.ObserveOperation("Feed.Swipe.Undo", "invariant_violation", time.Millisecond)
	h.ObserveOperation("Feed.Swipe.Like", "conflict", time.Millisecond)
	h.IncConflict("Feed.Swipe.Like")

	if got := h.Statuses("Feed.Swipe.Like"); !slices.Equal(got, []string{"success", "conflict"}) {
		t.Fatalf("like statuses: %v", got)
	}
	if got := h.Statuses("Feed.Swipe.Dislike"); len(got) != 0 {
		t.Fatalf("unexpected dislike statuses: %v", got)
	}
	if len(h.Conflicts) != 1 || len(h.Retries) != 0 {
		t.Fatalf("conflicts=%v retries=%v", h.Conflicts, h.Retries)
	}
}

func TestHooksRecorderConcurrentWriters(t *testing.T) {
	h := &HooksRecorder{}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.ObserveOperation("Feed.Swipe.Like", "success", 0)
			h.IncRetry("Feed.Swipe.Like")
		}()
	}
	wg.Wait()
	if len(h.Statuses("Feed.Swipe.Like")) != 16 || len(h.Retries) != 16 {
		t.Fatalf("lost events: ops=%d retries=%d", len(h.Operations), len(h.Retries))
	}
}
