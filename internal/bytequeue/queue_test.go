package bytequeue

import (
	"sync"
	"testing"
)

func TestPushDrainOrder(t *testing.T) {
	q := New()
	q.Push([]byte("a"))
	q.Push([]byte("b"))
	q.Push([]byte("c"))

	got := q.Drain()
	if len(got) != 3 {
		t.Fatalf("Drain returned %d chunks, want 3", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if string(got[i]) != want {
			t.Fatalf("chunk %d = %q, want %q", i, got[i], want)
		}
	}
}

func TestDrainEmptyReturnsNil(t *testing.T) {
	q := New()
	if got := q.Drain(); got != nil {
		t.Fatalf("Drain on empty queue = %v, want nil", got)
	}
}

func TestDrainClearsQueue(t *testing.T) {
	q := New()
	q.Push([]byte("x"))
	q.Drain()
	if q.Len() != 0 {
		t.Fatalf("Len after drain = %d, want 0", q.Len())
	}
}

func TestPushEmptyIsNoOp(t *testing.T) {
	q := New()
	q.Push(nil)
	q.Push([]byte{})
	if q.Len() != 0 {
		t.Fatalf("Len after pushing empty slices = %d, want 0", q.Len())
	}
}

func TestConcurrentPushDrain(t *testing.T) {
	q := New()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			q.Push([]byte{byte(i)})
		}
	}()
	total := 0
	for total < 1000 {
		total += len(q.Drain())
	}
	wg.Wait()
}
