package service

import (
	"errors"
	"fmt"
)

// StructureMismatchError reports that the listing table no longer has the
// expected column shape. It is never recovered silently: guessing a column
// mapping would corrupt every record extracted after the layout change.
type StructureMismatchError struct {
	Page int
	Want int
	Got  int
}

func (e *StructureMismatchError) Error() string {
	return fmt.Sprintf("page %d: expected %d columns, found %d", e.Page, e.Want, e.Got)
}

// RetryExhaustedError carries the last transient failure after the retry
// policy ran out of attempts. The row loop maps it to skip-and-continue.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }

// errModalNotVisible marks a documents modal that never became visible
// within its timeout. Transient: the next attempt re-clicks the trigger.
var errModalNotVisible = errors.New("documents modal not visible")
