package thread

import (
	"kthreads/errors"
	"kthreads/intlevel"
	"kthreads/logging"
)

// recomputeEffective implements the donation formula from spec.md
// §4.G: t's priority becomes the max of its base priority, an optional
// hint (an acquirer about to block on one of t's locks, not yet
// inserted into that lock's waiters), and the highest priority among
// threads already waiting on any lock t holds. It then walks the chain
// of locks t's new donor (starting with t itself) is blocked on,
// propagating the priority to holders that no longer dominate. Caller
// must hold the critical section.
func (s *Scheduler) recomputeEffective(t *TCB, hint int) {
	p := t.basePriority
	if hint > p {
		p = hint
	}
	for l := range t.locks {
		if w := l.sem.waiters.Front(); w != nil && w.Value.priority > p {
			p = w.Value.priority
		}
	}
	t.priority = p
	s.reorderReady(t)

	donor := t
	l := t.blockedOn
	for l != nil && l.holder != nil && l.holder.priority < donor.priority {
		logger := logging.WithLock(logging.WithTID(logging.Default(), donor.tid), l.name)
		logger.Debug("priority donated", "from", donor.name, "to", l.holder.name, "priority", donor.priority)
		l.holder.priority = donor.priority
		s.reorderReady(l.holder)
		donor = l.holder
		l = donor.blockedOn
	}
}

// reorderReady repositions t within the ready list in place after its
// priority changed, per spec.md §4.C/§4.G. Under MLFQS the ready list
// is unordered; only the min-cache needs refreshing there, which the
// per-4-tick recompute already handles.
func (s *Scheduler) reorderReady(t *TCB) {
	if t.readyNode == nil || s.mlfqs {
		return
	}
	s.readyList.Reorder(t.readyNode, lessPriorityPolicy)
}

// SetPriority updates the calling thread's base priority and
// recomputes its effective priority, accounting for any active
// donations. It is a no-op under MLFQS (spec.md §4.H), where priority
// is derived purely from recent_cpu and nice.
func (s *Scheduler) SetPriority(p int) {
	if s.mlfqs {
		return
	}
	if intlevel.InInterrupt() {
		fatalWith(errors.ErrThreadContextOnly, "set_priority", s.current.name)
	}
	prev := intlevel.Disable()
	cur := s.current
	cur.basePriority = p
	s.recomputeEffective(cur, p)
	intlevel.Set(prev)
	s.swapToHighest()
}

// GetPriority returns the calling thread's current effective priority.
func (s *Scheduler) GetPriority() int { return s.current.priority }

// swapToHighest is the generic preemption check (spec.md §4.G): if some
// READY thread strictly dominates the running thread's priority, yield
// immediately from thread context, or merely flag a yield-on-return
// from interrupt context (the flag is consumed at the next OnTick's
// return boundary).
func (s *Scheduler) swapToHighest() {
	prev := intlevel.Disable()
	top := s.topReady()
	dominates := top != nil && s.current.priority < top.priority
	if !dominates {
		intlevel.Set(prev)
		return
	}
	if intlevel.InInterrupt() {
		s.yieldPending = true
		intlevel.Set(prev)
		return
	}
	intlevel.Set(prev)
	s.Yield()
}
