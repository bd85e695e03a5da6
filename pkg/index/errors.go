package index

import (
	"errors"
	"fmt"
)

// ErrIndexLoadFailed marks a failed one-time index fetch. Nothing of the
// collection can be shown; callers offer a retry.
var ErrIndexLoadFailed = errors.New("index load failed")

// LoadError carries the collection (or nested list source) whose index failed.
type LoadError struct {
	Collection string
	Err        error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrIndexLoadFailed, e.Collection, e.Err)
}

// Unwrap exposes both ErrIndexLoadFailed and the underlying cause.
func (e *LoadError) Unwrap() []error {
	return []error{ErrIndexLoadFailed, e.Err}
}
