package chrome

import (
	"context"
	"errors"
	"fmt"
)

// TransientError marks a navigator failure that is expected to resolve on
// retry: timeouts, stale element handles, a page that has not finished
// rendering.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// SessionLostError means the browser session itself is gone. Never retried;
// it aborts the whole run.
type SessionLostError struct {
	Err error
}

func (e *SessionLostError) Error() string {
	return fmt.Sprintf("browser session lost: %v", e.Err)
}

func (e *SessionLostError) Unwrap() error { return e.Err }

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

func IsSessionLost(err error) bool {
	var se *SessionLostError
	return errors.As(err, &se)
}

// classify maps an engine error onto the taxonomy. Context cancellation
// means the session (or the run) is gone; deadline expiry is a bounded wait
// that ran out and may succeed next time.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return &SessionLostError{Err: fmt.Errorf("%s: %w", op, err)}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Op: op, Err: err}
	}
	return &TransientError{Op: op, Err: err}
}
