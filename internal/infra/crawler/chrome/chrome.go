package chrome

import (
	"context"
	"time"
)

// Navigator is the capability surface the extraction core needs from a
// browser session. Implementations own exactly one session; it is acquired
// by the Init* constructor and released by Close on every exit path.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
	// WaitReady blocks until an element matching selector is visible, or the
	// timeout elapses. Timeouts surface as transient errors.
	WaitReady(ctx context.Context, selector string, timeout time.Duration) error
	FindAll(ctx context.Context, selector string) ([]Element, error)
	// PressEscape sends Escape to the page, the fallback for dismissing a
	// modal whose close control cannot be found.
	PressEscape(ctx context.Context) error
	Close()
}

// Element is an opaque handle to a node on the currently loaded page.
// Handles become stale when the page navigates; operations on a stale
// handle return transient errors.
type Element interface {
	Text(ctx context.Context) (string, error)
	// Attribute returns "" without error when the attribute is absent.
	Attribute(ctx context.Context, name string) (string, error)
	Click(ctx context.Context) error
	Visible(ctx context.Context) (bool, error)
	Enabled(ctx context.Context) (bool, error)
	FindAll(ctx context.Context, selector string) ([]Element, error)
}
