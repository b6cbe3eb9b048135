// Package event carries stimuli from independent sources to the single goroutine driving the FSM
package event

import (
	"sync/atomic"

	"github.com/lixenwraith/mdstatus/engine/fsm"
)

const (
	// QueueSize is the ring capacity; a power of two so positions map to slots with a mask
	QueueSize = 256

	slotMask = QueueSize - 1
)

// slot holds one stimulus and the position that wrote it
// seq is position+1, so a zero seq is a slot never written
type slot struct {
	seq atomic.Uint64
	val atomic.Int64
}

// Queue is a bounded multi-producer, single-consumer ring of stimuli
//
// Producers claim a position with an atomic add and stamp the slot after writing it.
// The consumer stops at the first slot whose stamp is not its position, so a stimulus
// is never read half-written. When producers lap the consumer, the oldest unread
// stimuli are lost.
//
// A collapsible stimulus is dropped when the previous push was the same stimulus.
// The marker clears whenever Consume finds nothing to read.
type Queue struct {
	slots [QueueSize]slot
	head  atomic.Uint64 // next position to read
	tail  atomic.Uint64 // next position to claim

	collapsible map[fsm.Stimulus]bool
	lastPushed  atomic.Int64
	dropped     atomic.Uint64

	notify chan struct{}
}

// NewQueue creates a queue; collapse lists the stimuli subject to duplicate suppression
func NewQueue(collapse ...fsm.Stimulus) *Queue {
	q := &Queue{
		collapsible: make(map[fsm.Stimulus]bool, len(collapse)),
		notify:      make(chan struct{}, 1),
	}
	for _, s := range collapse {
		q.collapsible[s] = true
	}
	return q
}

// Push appends a stimulus; safe from any goroutine
// Returns false if the stimulus was collapsed into the previous one
func (q *Queue) Push(s fsm.Stimulus) bool {
	if q.collapsible[s] && fsm.Stimulus(q.lastPushed.Load()) == s {
		q.dropped.Add(1)
		return false
	}

	pos := q.tail.Add(1) - 1
	sl := &q.slots[pos&slotMask]
	sl.val.Store(int64(s))
	sl.seq.Store(pos + 1)

	// lapped: move the reader past the slot just reused
	if head := q.head.Load(); pos+1-head > QueueSize {
		q.head.CompareAndSwap(head, pos+1-QueueSize)
	}

	q.lastPushed.Store(int64(s))

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Consume returns the pending stimuli in push order
// Only the Pump goroutine may call it
func (q *Queue) Consume() []fsm.Stimulus {
	for {
		head := q.head.Load()
		end := q.tail.Load()
		if head == end {
			q.lastPushed.Store(int64(fsm.StimulusNone))
			return nil
		}
		start := head
		if end-start > QueueSize {
			start = end - QueueSize
		}

		out := make([]fsm.Stimulus, 0, end-start)
		pos := start
		for ; pos < end; pos++ {
			sl := &q.slots[pos&slotMask]
			if sl.seq.Load() != pos+1 {
				// claimed but not stamped yet, or already reused by a lapping producer
				break
			}
			out = append(out, fsm.Stimulus(sl.val.Load()))
		}

		if q.head.CompareAndSwap(head, pos) {
			if len(out) == 0 {
				return nil
			}
			return out
		}
		// a producer moved head while we read; start over from the new head
	}
}

// Len returns the number of unread stimuli, capped at QueueSize
// It is a snapshot and may be stale by the time it returns
func (q *Queue) Len() int {
	head, tail := q.head.Load(), q.tail.Load()
	if tail <= head {
		return 0
	}
	return int(min(tail-head, QueueSize))
}

// Dropped returns the number of stimuli collapsed since creation
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

// Notify is signalled after each successful Push; it never blocks producers
func (q *Queue) Notify() <-chan struct{} {
	return q.notify
}
