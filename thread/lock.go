package thread

import (
	"fmt"

	"kthreads/errors"
	"kthreads/intlevel"
)

// Lock is a binary semaphore with an owner reference, integrated with
// priority donation (spec.md §4.G): acquiring an unavailable lock
// records blocked_on_lock and donates the acquirer's priority up the
// holder chain before blocking; releasing sheds any donation this lock
// accounted for back toward the holder's base priority.
type Lock struct {
	s      *Scheduler
	sem    *Semaphore
	holder *TCB
	name   string // identifies the lock in donation-chain logging only
}

// NewLock returns an unheld lock.
func (s *Scheduler) NewLock() *Lock {
	s.lockMu.Lock()
	id := s.nextLockID
	s.nextLockID++
	s.lockMu.Unlock()
	return &Lock{s: s, sem: s.NewSemaphore(1), name: fmt.Sprintf("lock%d", id)}
}

// Holder returns the thread currently holding l, or nil.
func (l *Lock) Holder() *TCB { return l.holder }

// Acquire blocks until the lock is free. While waiting it donates the
// calling thread's priority to the current holder (and transitively up
// any chain of locks the holder is itself blocked on).
func (l *Lock) Acquire() {
	s := l.s
	cur := s.current

	prev := intlevel.Disable()
	if _, held := cur.locks[l]; held {
		intlevel.Set(prev)
		fatalWith(errors.ErrLockAlreadyHeld, "acquire", cur.name)
	}
	if l.holder != nil {
		cur.blockedOn = l
		if !s.mlfqs {
			s.recomputeEffective(l.holder, cur.priority)
		}
	}
	intlevel.Set(prev)

	l.sem.Down()

	prev = intlevel.Disable()
	cur.blockedOn = nil
	l.holder = cur
	cur.locks[l] = struct{}{}
	intlevel.Set(prev)
}

// Release gives up the lock, waking the highest-priority waiter and
// shedding any priority donated on this lock's account back to the
// holder's base priority (spec.md §4.G).
func (l *Lock) Release() {
	s := l.s
	prev := intlevel.Disable()
	holder := l.holder
	if holder != s.current {
		intlevel.Set(prev)
		fatalWith(errors.ErrLockNotHeld, "release", s.current.name)
	}
	l.holder = nil
	delete(holder.locks, l)
	intlevel.Set(prev)

	l.sem.Up()

	prev = intlevel.Disable()
	if !s.mlfqs {
		s.recomputeEffective(holder, holder.basePriority)
	}
	intlevel.Set(prev)
	s.swapToHighest()
}
