package thread

import (
	"kthreads/errors"
	"kthreads/intlevel"
)

// schedule is the context-switch sequencer (spec.md §4.F). It must be
// called with interrupts disabled and the outgoing thread's status
// already changed away from RUNNING. It selects the next thread via
// nextThreadToRun, hands the CPU baton to it over a channel, and parks
// the outgoing thread on its own channel until it is scheduled again —
// unless the outgoing thread is DYING, in which case its goroutine
// never parks and returns for good, exactly as a dying stack can never
// resume itself.
func (s *Scheduler) schedule() {
	cur := s.current
	if intlevel.Get() != intlevel.Off {
		fatalWith(errors.ErrInterruptsEnabled, "schedule", cur.name)
	}
	if cur.status == StatusRunning {
		fatalWith(errors.ErrScheduleWhileRunning, "schedule", cur.name)
	}

	next := s.nextThreadToRun()
	if !next.checkMagic() {
		fatalWith(errors.ErrStackOverflow, "schedule", next.name)
	}

	if cur == next {
		// next_thread_to_run chose the very thread that is suspending
		// (e.g. a solitary yield with nothing else ready to run): no
		// switch occurs, but the tail still resets the quantum.
		cur.status = StatusRunning
		s.quantumTicks = 0
		return
	}

	s.handoffFrom = cur
	s.current = next
	next.wake <- struct{}{}

	if cur.status == StatusDying {
		return
	}
	<-cur.wake
	s.finishSwitchTail()
}

// finishSwitchTail completes a context switch: marks the newly current
// thread RUNNING, resets its quantum counter, and — if its predecessor
// was DYING and not the initial thread — reclaims the predecessor's
// page. It must run with interrupts still disabled, exactly as the
// hand-off that woke this goroutine left them; it is the first thing
// every dispatched or resumed thread does.
func (s *Scheduler) finishSwitchTail() {
	if intlevel.Get() != intlevel.Off {
		fatalWith(errors.ErrInterruptsEnabled, "schedule", s.current.name)
	}
	cur := s.current
	if !cur.checkMagic() {
		fatalWith(errors.ErrStackOverflow, "schedule", cur.name)
	}
	cur.status = StatusRunning
	s.quantumTicks = 0

	prev := s.handoffFrom
	s.handoffFrom = nil
	if prev != nil && prev.status == StatusDying && prev != s.initial {
		s.pages.Free(prev.page)
		prev.page = nil
	}
}

// runThread is the goroutine body backing every created thread: wait
// for the first dispatch, complete the switch tail exactly as a
// resumed thread would, enable interrupts, run the thread's function,
// then exit. This is the Go stand-in for the kernel_thread trampoline
// built atop three hand-assembled stack frames in the original kernel.
func (s *Scheduler) runThread(t *TCB) {
	<-t.wake
	s.finishSwitchTail()
	intlevel.Set(intlevel.On)
	t.fn(t.aux)
	s.Exit()
}
