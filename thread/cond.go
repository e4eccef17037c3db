package thread

import "kthreads/dlist"

// Cond is a condition variable: a list of per-waiter semaphores, woken
// in order of the waiter's priority at signal time rather than strict
// FIFO (spec.md §4.I) — Signal re-ranks by each waiter's live priority
// so a donation received after Wait was called is still honored.
type Cond struct {
	s       *Scheduler
	waiters *dlist.List[*condWaiter]
}

type condWaiter struct {
	t   *TCB
	sem *Semaphore
}

func lessCondWaiter(a, b *condWaiter) bool { return a.t.priority > b.t.priority }

// NewCond returns an empty condition variable.
func (s *Scheduler) NewCond() *Cond {
	return &Cond{s: s, waiters: dlist.New[*condWaiter]()}
}

// Wait atomically releases l and blocks the calling thread until Signal
// or Broadcast wakes it, then reacquires l before returning.
func (c *Cond) Wait(l *Lock) {
	w := &condWaiter{t: c.s.current, sem: c.s.NewSemaphore(0)}
	c.waiters.PushBack(w)
	l.Release()
	w.sem.Down()
	l.Acquire()
}

// Signal wakes whichever waiter currently has the highest priority, if
// any are waiting.
func (c *Cond) Signal() {
	n := c.waiters.Min(lessCondWaiter)
	if n == nil {
		return
	}
	c.waiters.Remove(n)
	n.Value.sem.Up()
}

// Broadcast wakes every waiter.
func (c *Cond) Broadcast() {
	for !c.waiters.Empty() {
		c.Signal()
	}
}
