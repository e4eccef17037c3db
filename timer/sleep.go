// Package timer's sleep queue lets threads suspend until a future tick
// without the scheduler itself knowing anything about wall-clock time —
// spec.md §5 treats this as an above-the-scheduler concern built out of
// block()/unblock() plus a sorted wake-tick queue.
package timer

import "sort"

// waiter is one entry in the sleep queue: wake is the tick_count at or
// after which the sleeper should be unblocked, and unblock is called
// exactly once when that happens.
type waiter struct {
	wake    uint64
	unblock func()
}

// SleepQueue holds threads parked until a target tick, sorted by wake
// tick so Fire only has to look at a prefix of the slice each call.
type SleepQueue struct {
	waiters []waiter
}

// NewSleepQueue returns an empty sleep queue.
func NewSleepQueue() *SleepQueue {
	return &SleepQueue{}
}

// Add registers a sleeper that should be woken (via unblock) once the
// tick source reaches wake. Callers are expected to have already called
// the scheduler's block() before registering here, and unblock is
// expected to call the scheduler's unblock(t).
func (q *SleepQueue) Add(wake uint64, unblock func()) {
	i := sort.Search(len(q.waiters), func(i int) bool { return q.waiters[i].wake >= wake })
	q.waiters = append(q.waiters, waiter{})
	copy(q.waiters[i+1:], q.waiters[i:])
	q.waiters[i] = waiter{wake: wake, unblock: unblock}
}

// Fire wakes every sleeper whose wake tick has arrived by now, removing
// them from the queue. Intended to be called once per tick from the
// timer ISR, after the scheduler's own per-tick bookkeeping.
func (q *SleepQueue) Fire(now uint64) {
	i := 0
	for i < len(q.waiters) && q.waiters[i].wake <= now {
		i++
	}
	if i == 0 {
		return
	}
	due := q.waiters[:i]
	q.waiters = append([]waiter(nil), q.waiters[i:]...)
	for _, w := range due {
		w.unblock()
	}
}

// Len returns the number of pending sleepers.
func (q *SleepQueue) Len() int { return len(q.waiters) }
