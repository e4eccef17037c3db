// Package errors provides predefined sentinel errors and the fatal
// panic path for programmer-contract violations.
package errors

import (
	"fmt"

	"kthreads/logging"
)

// Allocation errors — the one recoverable case in spec.md §7.
var (
	// ErrAllocationFailed indicates the page pool could not provide a
	// page for a new TCB; create() surfaces this as TID_ERROR.
	ErrAllocationFailed = &SchedError{
		Kind:   KindAllocation,
		Detail: "no page available for new thread",
	}
)

// Contract-violation sentinels. These are never returned to a caller —
// they are passed to Fatal, which logs and panics.
var (
	// ErrStackOverflow indicates a TCB's magic word no longer matches
	// THREAD_MAGIC, implying the thread's stack grew into its own
	// control block.
	ErrStackOverflow = &SchedError{
		Kind:   KindContract,
		Detail: "stack overflow: magic word mismatch",
	}

	// ErrThreadContextOnly indicates a thread-context-only operation
	// (block, yield, exit, set_priority, set_nice) was called from
	// interrupt context, where none of them are permitted.
	ErrThreadContextOnly = &SchedError{
		Kind:   KindContract,
		Detail: "operation forbidden from interrupt context",
	}

	// ErrScheduleWhileRunning indicates schedule() was invoked with the
	// outgoing thread's status still RUNNING.
	ErrScheduleWhileRunning = &SchedError{
		Kind:   KindContract,
		Detail: "schedule() called with running thread still marked RUNNING",
	}

	// ErrUnblockNotBlocked indicates unblock() was called on a thread
	// whose status is not BLOCKED.
	ErrUnblockNotBlocked = &SchedError{
		Kind:   KindContract,
		Detail: "unblock() called on a thread that is not BLOCKED",
	}

	// ErrInterruptsEnabled indicates a mutation of shared scheduler
	// state was attempted with interrupts enabled.
	ErrInterruptsEnabled = &SchedError{
		Kind:   KindContract,
		Detail: "operation requires interrupts disabled",
	}
)

// Invalid-state sentinels for the synchronization primitives.
var (
	// ErrLockAlreadyHeld indicates acquire() was called by the thread
	// that already owns the lock.
	ErrLockAlreadyHeld = &SchedError{
		Kind:   KindInvalidState,
		Detail: "lock already held by calling thread",
	}

	// ErrLockNotHeld indicates release() was called by a thread that
	// does not own the lock.
	ErrLockNotHeld = &SchedError{
		Kind:   KindInvalidState,
		Detail: "release() called by a thread that does not hold the lock",
	}
)

// Fatal reports a programmer-contract violation: it is never meant to be
// recovered. Per spec.md §7 these always panic; Fatal centralizes that so
// every call site logs the same way before panicking.
func Fatal(err *SchedError) {
	logger := logging.WithOperation(logging.Default(), err.Op)
	if err.Thread != "" {
		logger = logging.WithThread(logger, err.Thread)
	}
	logger.Error("fatal scheduler contract violation", "detail", err.Detail)
	panic(fmt.Sprintf("kthreads: fatal: %s", err.Error()))
}
