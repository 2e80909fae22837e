package aggregates

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestKeyedMutexSerialisesSameKey(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := m.Lock(ctx, "user-1")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Fatalf("expected exclusive access, saw %d holders", maxSeen)
	}
	if n := m.size(); n != 0 {
		t.Fatalf("expected idle slots to be dropped, have %d", n)
	}
}

func TestKeyedMutexIndependentKeysAndCancel(t *testing.T) {
	m := NewKeyedMutex()
	releaseA, err := m.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("lock a: %v", err)
	}
	releaseB, err := m.Lock(context.Background(), "b")
	if err != nil {
		t.Fatalf("different keys must not contend: %v", err)
	}
	releaseB()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := m.Lock(ctx, "a"); err == nil {
		t.Fatalf("expected timeout while a is held")
	}
	releaseA()
	releaseA()

	release, err := m.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("relock a: %v", err)
	}
	release()
	if n := m.size(); n != 0 {
		t.Fatalf("slots leaked: %d", n)
	}
}
