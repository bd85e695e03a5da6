package hydrate

import "fmt"

// View is one hydrated page.
type View[T any] struct {
	Generation    uint64
	Page          int
	PageSize      int
	Search        string
	TotalPages    int
	FilteredCount int

	// Items holds the hydrated records in slice order.
	Items []T

	// Missing lists the names whose detail fetch failed, in slice order.
	Missing []string
}

// Empty reports the EmptyResult state: nothing matched the search term.
func (v View[T]) Empty() bool {
	return v.FilteredCount == 0
}

// Partial reports whether some entries of the page could not be hydrated.
func (v View[T]) Partial() bool {
	return len(v.Missing) > 0
}

// EmptyMessage returns the message shown for an EmptyResult.
func (v View[T]) EmptyMessage() string {
	if v.Search == "" {
		return "no results"
	}
	return fmt.Sprintf("no results for '%s'", v.Search)
}
