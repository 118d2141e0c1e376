package session

import (
	"errors"
	"fmt"
)

var (
	// ErrPathResolution reports that an edit's path cannot be traversed:
	// an intermediate node is a leaf, or the final container rejects the
	// segment.
	ErrPathResolution = errors.New("path cannot be resolved")

	// ErrInvalidated reports an operation against a session whose
	// backing file was deleted.
	ErrInvalidated = errors.New("document is no longer available")
)

// IOError wraps a host read/write failure, keeping the underlying
// message for the user-visible notification.
type IOError struct {
	Op   string
	File string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.File, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
