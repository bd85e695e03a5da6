// Package pagination provides page arithmetic, page-range display tokens and
// a positional fan-out batch fetcher for paged collection views.
//
// Page numbers are 1-based. A collection of n entries split into pages of
// pageSize entries always has at least one page:
//
//	total := pagination.TotalPages(len(filtered), 20)
//	page = pagination.Clamp(page, total)
//	visible := pagination.Slice(filtered, page, 20)
//
// Range turns the current page and the page count into the compact token
// sequence a pager renders ("1 … 4 5 6 7 8 … 12").
//
// The batch fetcher resolves a slice of inputs concurrently and returns the
// results in input order, independent of completion order:
//
//	fetcher := pagination.NewBatchFetcher[string, Pokemon](pagination.DefaultConfig())
//	results := fetcher.FetchAll(ctx, names, fetchOne)
//
// Individual failures are reported per result; they never fail the batch.
package pagination
