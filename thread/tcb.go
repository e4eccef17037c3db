// Package thread implements the scheduler core: thread control blocks,
// the ready queue and its two selection policies, the context-switch
// sequencer, priority donation, the MLFQS numerical policy, and the
// synchronization primitives built on top of them.
//
// Each kernel thread is backed by one goroutine; "the CPU" is a single
// baton passed between per-thread wake channels while intlevel models
// the interrupt-disable critical section that guards every mutation of
// shared scheduler state. See SPEC_FULL.md's execution model note for
// the full mapping.
package thread

import (
	"kthreads/dlist"
	"kthreads/fixedpoint"
	"kthreads/pagepool"
)

// Priority bounds, scheduling constants, and the magic word used to
// detect stack overflow.
const (
	PriMin     = 0
	PriDefault = 31
	PriMax     = 63

	// TimeSlice is the number of ticks given to a thread's quantum
	// before a round-robin preemption is requested.
	TimeSlice = 4

	// TIDError is returned by Create when no page is available.
	TIDError = -1

	threadMagic = 0xCD6ABF4B

	NiceMin = -20
	NiceMax = 20

	maxNameLen = 15
)

// Status is a thread's lifecycle state.
type Status int

const (
	StatusBlocked Status = iota
	StatusReady
	StatusRunning
	StatusDying
)

// String renders a Status for logging.
func (s Status) String() string {
	switch s {
	case StatusBlocked:
		return "blocked"
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusDying:
		return "dying"
	default:
		return "unknown"
	}
}

// TCB is a thread control block. In the original kernel this and the
// thread's stack share one physical page; here the page is still
// allocated and accounted for through pagepool to preserve the
// one-page-per-thread resource model, with the goroutine itself
// standing in for the stack.
type TCB struct {
	tid   int
	name  string
	magic uint32

	status Status

	basePriority int
	priority     int
	blockedOn    *Lock
	locks        map[*Lock]struct{}

	nice      int
	recentCPU fixedpoint.Fixed

	allNode   *dlist.Node[*TCB]
	readyNode *dlist.Node[*TCB]

	wake chan struct{}
	fn   func(any)
	aux  any

	page *pagepool.Page
}

// TID returns the thread's identifier.
func (t *TCB) TID() int { return t.tid }

// Name returns the thread's name, truncated to maxNameLen at creation.
func (t *TCB) Name() string { return t.name }

// Priority returns the thread's current effective priority.
func (t *TCB) Priority() int { return t.priority }

// BasePriority returns the priority last set via set_priority, ignoring
// any active donation.
func (t *TCB) BasePriority() int { return t.basePriority }

// Status returns the thread's lifecycle state.
func (t *TCB) Status() Status { return t.status }

// Nice returns the thread's MLFQS niceness.
func (t *TCB) Nice() int { return t.nice }

func (t *TCB) checkMagic() bool { return t.magic == threadMagic }

func truncateName(name string) string {
	if len(name) > maxNameLen {
		return name[:maxNameLen]
	}
	return name
}
