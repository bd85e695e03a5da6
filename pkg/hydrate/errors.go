package hydrate

import (
	"errors"
	"fmt"
)

// ErrStale is returned by Browser.Load when the browser state changed while
// the batch was in flight. The result was not applied.
var ErrStale = errors.New("stale batch discarded")

// DetailFetchError records the failed hydration of one entry.
type DetailFetchError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *DetailFetchError) Error() string {
	return fmt.Sprintf("detail fetch failed for %q: %v", e.Name, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DetailFetchError) Unwrap() error {
	return e.Err
}
