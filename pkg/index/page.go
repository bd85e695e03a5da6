package index

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"
)

// Page is one upstream-paginated slice of a collection.
type Page struct {
	// Count is the size of the whole collection.
	Count   int
	Entries []Entry
}

// PageEndpoint returns the list endpoint for one upstream page.
func PageEndpoint(c Collection, offset, limit int) string {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	q.Set("offset", fmt.Sprint(offset))
	return "/" + string(c) + "?" + q.Encode()
}

// LoadPage fetches a single upstream page of c. Unlike Load it relies on
// upstream pagination and is meant for passthrough callers that never hold
// the whole index.
func (l *Loader) LoadPage(ctx context.Context, c Collection, offset, limit int) (Page, error) {
	body, err := l.fetcher.Fetch(ctx, PageEndpoint(c, offset, limit))
	if err != nil {
		return Page{}, &LoadError{Collection: string(c), Err: err}
	}

	entries, err := parseList(body, "results", "")
	if err != nil {
		return Page{}, &LoadError{Collection: string(c), Err: err}
	}

	count := gjson.GetBytes(body, "count")
	if !count.Exists() {
		return Page{}, &LoadError{Collection: string(c), Err: fmt.Errorf("%w: missing count", errMalformed)}
	}

	return Page{Count: int(count.Int()), Entries: entries}, nil
}
