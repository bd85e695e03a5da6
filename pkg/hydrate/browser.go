package hydrate

import (
	"context"
	"sync"
	"time"

	"github.com/Sternrassler/pokeapi-client/pkg/index"
	"github.com/Sternrassler/pokeapi-client/pkg/logging"
	"github.com/Sternrassler/pokeapi-client/pkg/pagination"
	"github.com/rs/zerolog"
)

// DefaultPageSize is used when Config.PageSize is not positive.
const DefaultPageSize = 20

// Config holds browser configuration.
type Config struct {
	// PageSize is the maximum number of records per page (typically 20 or 40).
	PageSize int

	// MaxConcurrency bounds parallel detail fetches per batch.
	// Zero fans out the whole page at once.
	MaxConcurrency int
}

// PageState is the user-controlled part of a browser's state.
type PageState struct {
	Generation    uint64
	Page          int
	PageSize      int
	Search        string
	FilteredCount int
	TotalPages    int
}

// Browser is a paged, searchable view over an index whose page entries are
// hydrated lazily. It is safe for concurrent use.
type Browser[T any] struct {
	fetch   DetailFunc[T]
	cache   *Cache[T]
	batches *pagination.BatchFetcher[index.Entry, T]
	config  Config
	logger  zerolog.Logger

	mu         sync.Mutex
	entries    []index.Entry
	search     string
	filtered   []index.Entry
	page       int
	generation uint64
	current    View[T]
	inflight   int
}

// NewBrowser creates a browser with its own detail cache.
func NewBrowser[T any](fetch DetailFunc[T], cfg Config) *Browser[T] {
	return NewBrowserWithCache(fetch, NewCache[T](), cfg)
}

// NewBrowserWithCache creates a browser sharing an existing cache, e.g. to
// keep details across a re-mounted view of the same collection.
func NewBrowserWithCache[T any](fetch DetailFunc[T], cache *Cache[T], cfg Config) *Browser[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &Browser[T]{
		fetch:   fetch,
		cache:   cache,
		batches: pagination.NewBatchFetcher[index.Entry, T](pagination.Config{MaxConcurrency: cfg.MaxConcurrency}),
		config:  cfg,
		logger:  logging.NewLogger(logging.ComponentHydrator),
		page:    1,
	}
}

// Cache returns the browser's detail cache.
func (b *Browser[T]) Cache() *Cache[T] {
	return b.cache
}

// SetIndex replaces the index and returns to page 1.
func (b *Browser[T]) SetIndex(entries []index.Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = entries
	b.filtered = index.Filter(entries, b.search)
	b.page = 1
	b.generation++
}

// SetSearch changes the search term. The page is reset to 1 in the same
// step, so no slice is ever computed from the old page and the new filter.
func (b *Browser[T]) SetSearch(term string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if term == b.search {
		return
	}
	b.search = term
	b.filtered = index.Filter(b.entries, term)
	b.page = 1
	b.generation++
}

// SetPage moves to page. Callers keep page within [1, TotalPages]; use
// pagination.Clamp with State().TotalPages. Pages past the end load empty.
func (b *Browser[T]) SetPage(page int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if page == b.page {
		return
	}
	b.page = page
	b.generation++
}

// State returns the current page state.
func (b *Browser[T]) State() PageState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Browser[T]) stateLocked() PageState {
	return PageState{
		Generation:    b.generation,
		Page:          b.page,
		PageSize:      b.config.PageSize,
		Search:        b.search,
		FilteredCount: len(b.filtered),
		TotalPages:    pagination.TotalPages(len(b.filtered), b.config.PageSize),
	}
}

// Current returns the most recently applied view. While a newer batch is in
// flight it still describes the previous page.
func (b *Browser[T]) Current() View[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Loading reports whether a batch is in flight.
func (b *Browser[T]) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inflight > 0
}

// Load hydrates the current page and applies it as the current view.
//
// If the browser state changes before hydration finishes the result is
// discarded and ErrStale is returned along with the unapplied view. Details
// fetched by a discarded batch remain cached. Per-entry failures are not
// errors: the entries are omitted and listed in View.Missing.
func (b *Browser[T]) Load(ctx context.Context) (View[T], error) {
	b.mu.Lock()
	state := b.stateLocked()
	slice := pagination.Slice(b.filtered, state.Page, state.PageSize)
	b.inflight++
	b.mu.Unlock()

	start := time.Now()
	items, missing := b.hydrate(ctx, slice)
	batchDuration.Observe(time.Since(start).Seconds())

	view := View[T]{
		Generation:    state.Generation,
		Page:          state.Page,
		PageSize:      state.PageSize,
		Search:        state.Search,
		TotalPages:    state.TotalPages,
		FilteredCount: state.FilteredCount,
		Items:         items,
		Missing:       missing,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.inflight--

	if state.Generation != b.generation {
		staleBatches.Inc()
		b.logger.Debug().
			Uint64("generation", state.Generation).
			Uint64("current_generation", b.generation).
			Int("page", state.Page).
			Str("search", state.Search).
			Msg("Discarding stale batch")
		return view, ErrStale
	}

	b.current = view
	return view, nil
}

// hydrate resolves slice through the cache, keeping slice order and dropping
// failed entries.
func (b *Browser[T]) hydrate(ctx context.Context, slice []index.Entry) ([]T, []string) {
	results := b.batches.FetchAll(ctx, slice, func(ctx context.Context, e index.Entry) (T, error) {
		return b.cache.Resolve(ctx, e, b.fetch)
	})

	items := make([]T, 0, len(results))
	var missing []string
	for _, r := range results {
		if r.Error != nil {
			detailFailures.Inc()
			err := &DetailFetchError{Name: r.Input.Name, Err: r.Error}
			b.logger.Warn().Err(err).Str("name", r.Input.Name).Msg("Dropping entry from page")
			missing = append(missing, r.Input.Name)
			continue
		}
		items = append(items, r.Value)
	}
	return items, missing
}
