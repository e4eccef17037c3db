package thread

import (
	"kthreads/dlist"
	"kthreads/intlevel"
)

// Semaphore is an unsigned counter plus a waiters list ordered by
// descending priority (spec.md §4.I): Down blocks while the counter is
// zero, Up always wakes the highest-priority waiter first.
type Semaphore struct {
	s       *Scheduler
	value   int
	waiters *dlist.List[*TCB]
}

// NewSemaphore returns a semaphore initialized to value.
func (s *Scheduler) NewSemaphore(value int) *Semaphore {
	return &Semaphore{s: s, value: value, waiters: dlist.New[*TCB]()}
}

// Down blocks the calling thread until the semaphore's value is
// positive, then decrements it.
func (sem *Semaphore) Down() {
	s := sem.s
	prev := intlevel.Disable()
	for sem.value == 0 {
		sem.waiters.InsertOrdered(s.current, lessPriorityPolicy)
		s.Block()
	}
	sem.value--
	intlevel.Set(prev)
}

// Up wakes the highest-priority waiter, if any, increments the
// counter, then runs the preemption check — spec.md §4.I states the
// semaphore itself preempts when appropriate, unlike a bare unblock.
func (sem *Semaphore) Up() {
	s := sem.s
	prev := intlevel.Disable()
	if t, ok := sem.waiters.PopFront(); ok {
		s.Unblock(t)
	}
	sem.value++
	intlevel.Set(prev)
	s.swapToHighest()
}

// Value returns the current counter value, for diagnostics.
func (sem *Semaphore) Value() int { return sem.value }
