// Package spsc provides a fixed-capacity single-producer, single-consumer
// byte queue for handing bytes from one interrupt context to another.
package spsc

import "sync/atomic"

// Capacity is the fixed number of bytes a Queue can hold.
const Capacity = 16

const mask = Capacity - 1

// Queue is a lock-free SPSC byte FIFO.
//
// The producer owns wr and the consumer owns rd. Each side publishes its index
// with a store after touching the slot, and the other side loads it before
// touching the slot, so occupancy (wr-rd) is observed with acquire/release
// ordering. Exactly one producer context and one consumer context may use a
// Queue; the zero value is an empty queue ready for use.
type Queue struct {
	buf [Capacity]byte
	rd  atomic.Uint32 // consumer index (monotonic)
	wr  atomic.Uint32 // producer index (monotonic)
}

// Producer side

// TryEnqueue appends b. It returns false, leaving the queue untouched, when full.
func (q *Queue) TryEnqueue(b byte) bool {
	wr := q.wr.Load()
	rd := q.rd.Load() // acquire
	if wr-rd >= Capacity {
		return false
	}
	q.buf[wr&mask] = b
	q.wr.Store(wr + 1) // release
	return true
}

// Consumer side

// TryDequeue removes the oldest byte. ok is false when the queue is empty.
func (q *Queue) TryDequeue() (b byte, ok bool) {
	rd := q.rd.Load()
	wr := q.wr.Load() // acquire
	if wr == rd {
		return 0, false
	}
	b = q.buf[rd&mask]
	q.rd.Store(rd + 1) // release
	return b, true
}

// Either side

// IsEmpty reports whether no bytes are pending.
func (q *Queue) IsEmpty() bool { return q.Len() == 0 }

// Len returns the number of pending bytes, in [0, Capacity].
func (q *Queue) Len() int {
	rd := q.rd.Load()
	wr := q.wr.Load()
	return int(wr - rd)
}

// Cap returns the fixed capacity, Capacity.
func (q *Queue) Cap() int { return Capacity }

// indices returns the raw consumer and producer indices.
func (q *Queue) indices() (rd, wr uint32) {
	return q.rd.Load(), q.wr.Load()
}
