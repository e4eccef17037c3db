// Package errors provides typed error handling for the kthreads
// scheduler.
//
// Per spec.md §7, the scheduler distinguishes exactly one recoverable
// error (allocation failure in create, surfaced to the caller as
// TID_ERROR) from programmer-contract violations, which are fatal and
// reported through Fatal's panic rather than a returned error. All
// errors support the standard errors.Is()/errors.As() functions.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a SchedError.
type Kind int

const (
	// KindAllocation indicates a page or TCB allocation failed — the
	// one recoverable error, surfaced by create() as TID_ERROR.
	KindAllocation Kind = iota
	// KindContract indicates a violated programmer contract: stack
	// overflow (magic-word mismatch), blocking from interrupt context,
	// scheduling a thread that is still RUNNING, or unblocking a thread
	// that isn't BLOCKED. Always fatal.
	KindContract
	// KindInvalidState indicates an operation was attempted against a
	// thread or synchronization primitive in an invalid lifecycle state.
	KindInvalidState
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindAllocation:
		return "allocation failure"
	case KindContract:
		return "contract violation"
	case KindInvalidState:
		return "invalid state"
	default:
		return "unknown error"
	}
}

// SchedError is the scheduler's error type.
type SchedError struct {
	// Op is the operation that failed (e.g. "create", "block", "schedule").
	Op string
	// Thread is the thread name involved, if applicable.
	Thread string
	// Kind classifies the error.
	Kind Kind
	// Detail is a human-readable description.
	Detail string
	// Err is the underlying error, if any.
	Err error
}

// Error implements error.
func (e *SchedError) Error() string {
	if e == nil {
		return "<nil>"
	}

	var msg string
	if e.Thread != "" {
		msg = fmt.Sprintf("thread %s: ", e.Thread)
	}
	if e.Op != "" {
		msg += fmt.Sprintf("%s: ", e.Op)
	}
	if e.Detail != "" {
		msg += e.Detail
	} else {
		msg += e.Kind.String()
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *SchedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches by Kind when target is also a *SchedError.
func (e *SchedError) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if t, ok := target.(*SchedError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// New creates a SchedError with no wrapped cause.
func New(kind Kind, op, detail string) *SchedError {
	return &SchedError{Op: op, Kind: kind, Detail: detail}
}

// Wrap attaches scheduler context to an existing error.
func Wrap(err error, kind Kind, op string) *SchedError {
	return &SchedError{Op: op, Kind: kind, Err: err}
}

// WrapWithThread attaches scheduler context plus a thread name.
func WrapWithThread(err error, kind Kind, op, thread string) *SchedError {
	return &SchedError{Op: op, Kind: kind, Thread: thread, Err: err}
}

// IsKind reports whether err is a SchedError of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *SchedError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// Re-exported for convenience, as in the standard library.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)
