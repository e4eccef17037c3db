package thread

import "kthreads/errors"

// fatalWith copies a sentinel SchedError before attaching call-site
// context and reporting it fatal, rather than mutating the shared
// sentinel value in place.
func fatalWith(sentinel *errors.SchedError, op, threadName string) {
	e := *sentinel
	e.Op = op
	e.Thread = threadName
	errors.Fatal(&e)
}
