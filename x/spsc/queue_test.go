package spsc

import (
	"sync"
	"testing"
)

func TestEmptyQueue(t *testing.T) {
	var q Queue
	if !q.IsEmpty() || q.Len() != 0 {
		t.Fatalf("new queue not empty: len=%d", q.Len())
	}
	if _, ok := q.TryDequeue(); ok {
		t.Fatal("dequeue on empty queue succeeded")
	}
	if q.Cap() != 16 {
		t.Fatalf("cap=%d want 16", q.Cap())
	}
}

func TestFullQueueRejectsWithoutSideEffect(t *testing.T) {
	var q Queue
	for i := 0; i < Capacity; i++ {
		if !q.TryEnqueue(byte(i)) {
			t.Fatalf("enqueue %d failed before full", i)
		}
	}
	rd0, wr0 := q.indices()
	if q.TryEnqueue(0xAA) {
		t.Fatal("enqueue on full queue succeeded")
	}
	rd1, wr1 := q.indices()
	if rd0 != rd1 || wr0 != wr1 || q.Len() != Capacity {
		t.Fatalf("full enqueue changed state: (%d,%d)->(%d,%d)", rd0, wr0, rd1, wr1)
	}
	for i := 0; i < Capacity; i++ {
		b, ok := q.TryDequeue()
		if !ok || b != byte(i) {
			t.Fatalf("dequeue %d: got %d,%v", i, b, ok)
		}
	}
	if !q.IsEmpty() {
		t.Fatal("queue not empty after draining")
	}
}

// Interleaved ops across many index wraps; occupancy must stay in [0,16]
// and the output must equal the accepted input.
func TestOrderAcrossWrapWithPartialProgress(t *testing.T) {
	var q Queue
	const N = 2000
	var accepted, got []byte
	next := byte(0)
	for step := 0; len(got) < N; step++ {
		// producer burst of 1..7
		for k := 0; k < 1+step%7 && len(accepted) < N; k++ {
			if q.TryEnqueue(next) {
				accepted = append(accepted, next)
				next++
			}
		}
		if n := q.Len(); n < 0 || n > Capacity {
			t.Fatalf("occupancy out of range: %d", n)
		}
		// consumer burst of 1..5
		for k := 0; k < 1+step%5; k++ {
			b, ok := q.TryDequeue()
			if !ok {
				break
			}
			got = append(got, b)
		}
	}
	for i := range got {
		if got[i] != accepted[i] {
			t.Fatalf("mismatch at %d: got=%d want=%d", i, got[i], accepted[i])
		}
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	var q Queue
	const N = 10000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < N; {
			if q.TryEnqueue(byte(i)) {
				i++
			}
		}
	}()
	for i := 0; i < N; {
		b, ok := q.TryDequeue()
		if !ok {
			continue
		}
		if b != byte(i) {
			t.Fatalf("at %d got %d", i, b)
		}
		i++
	}
	wg.Wait()
}
