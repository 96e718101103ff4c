package ratelimit

import "sync/atomic"

// ringSlot pairs a timestamp with the sequence number of the bounded-queue
// protocol. For the slot serving position p on lap k (p = index + k*capacity):
// seq == 2k means the slot is free for the producer of position p, and
// seq == 2k+1 means it holds the value for the consumer of position p. Free
// states are even, occupied states are odd, and the lap keeps every state
// distinct, so the protocol holds at any capacity including one.
type ringSlot struct {
	seq atomic.Uint64
	ts  atomic.Int64 // unix nanoseconds
}

// timeRing is a fixed-capacity lock-free multi-producer multi-consumer queue
// of timestamps, after Vyukov's bounded MPMC design: head and tail advance
// by compare-and-swap, and each slot's sequence number tells whose turn it
// is. Timestamps travel as int64 unix-nanoseconds so slots stay atomic.
type timeRing struct {
	capacity uint64
	slots    []ringSlot
	head     atomic.Uint64
	tail     atomic.Uint64
}

func newTimeRing(capacity int) *timeRing {
	// Zero-valued slots already read as free on lap zero.
	return &timeRing{
		capacity: uint64(capacity),
		slots:    make([]ringSlot, capacity),
	}
}

// tryPush appends ts, failing when the ring is full.
func (r *timeRing) tryPush(ts int64) bool {
	for {
		tail := r.tail.Load()
		slot := &r.slots[tail%r.capacity]
		seq := slot.seq.Load()
		free := 2 * (tail / r.capacity)

		switch {
		case seq == free:
			if r.tail.CompareAndSwap(tail, tail+1) {
				slot.ts.Store(ts)
				slot.seq.Store(free + 1)

				return true
			}
		case seq < free:
			// Slot still holds the entry from the previous lap: full.
			return false
		default:
			// Another producer claimed this slot; reread tail.
		}
	}
}

// popIfBefore removes the oldest entry when it is strictly older than
// cutoff. It reports false when the ring is empty, when the oldest entry is
// still inside the window, or when a producer is mid-publish at the head.
func (r *timeRing) popIfBefore(cutoff int64) bool {
	for {
		head := r.head.Load()
		slot := &r.slots[head%r.capacity]
		seq := slot.seq.Load()
		published := 2*(head/r.capacity) + 1

		if seq < published {
			// Empty, or the producer of this position has claimed the slot
			// but not published yet. Nothing expired to take.
			return false
		}

		if seq > published {
			// A racing consumer already advanced past this position; our
			// head read is stale.
			continue
		}

		// The value cannot change under us: the producer published it before
		// setting seq, and no producer reuses the slot until a consumer
		// claims position head, which the CAS below decides.
		if slot.ts.Load() >= cutoff {
			return false
		}

		if r.head.CompareAndSwap(head, head+1) {
			// Hand the slot to the producer one lap ahead.
			slot.seq.Store(published + 1)

			return true
		}
	}
}

// len reports current occupancy. The two loads are not atomic together, so
// the result is approximate under concurrent use; callers treat it as a
// bounded estimate.
func (r *timeRing) len() int {
	tail := r.tail.Load()
	head := r.head.Load()

	if tail <= head {
		return 0
	}

	n := tail - head
	if n > r.capacity {
		n = r.capacity
	}

	return int(n)
}
