package index

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/Sternrassler/pokeapi-client/pkg/logging"
	"github.com/Sternrassler/pokeapi-client/pkg/pagination"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Fetcher retrieves the raw body of an upstream endpoint. A non-success
// status must be reported as an error.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) ([]byte, error)
}

// errMalformed is returned when an upstream body is not the expected JSON.
var errMalformed = errors.New("malformed list response")

// Loader fetches collection indexes. It performs exactly one request per
// Load call and never retries.
type Loader struct {
	fetcher Fetcher
	logger  zerolog.Logger
}

// NewLoader creates a loader on top of fetcher.
func NewLoader(fetcher Fetcher) *Loader {
	return &Loader{
		fetcher: fetcher,
		logger:  logging.NewLogger(logging.ComponentIndexLoader),
	}
}

// ListEndpoint returns the unpaginated list endpoint for c.
func ListEndpoint(c Collection) string {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(c.Limit()))
	q.Set("offset", "0")
	return "/" + string(c) + "?" + q.Encode()
}

// Load returns every entry of the collection in upstream order.
func (l *Loader) Load(ctx context.Context, c Collection) ([]Entry, error) {
	return l.loadList(ctx, string(c), ListEndpoint(c), "results", "")
}

// LoadItemCategories returns the union of the items of several item
// categories, deduplicated by name in first-seen order. Categories that fail
// to load are skipped; the call fails only when every category failed.
func (l *Loader) LoadItemCategories(ctx context.Context, slugs ...string) ([]Entry, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	bf := pagination.NewBatchFetcher[string, []Entry](pagination.DefaultConfig())
	results := bf.FetchAll(ctx, slugs, func(ctx context.Context, slug string) ([]Entry, error) {
		return l.loadList(ctx, "item-category/"+slug, "/item-category/"+url.PathEscape(slug), "items", "")
	})

	seen := make(map[string]struct{})
	var entries []Entry
	var errs []error
	for _, r := range results {
		if r.Error != nil {
			l.logger.Warn().Err(r.Error).Str("category", r.Input).Msg("Item category skipped")
			errs = append(errs, r.Error)
			continue
		}
		for _, e := range r.Value {
			if _, dup := seen[e.Name]; dup {
				continue
			}
			seen[e.Name] = struct{}{}
			entries = append(entries, e)
		}
	}

	if len(errs) == len(slugs) {
		return nil, &LoadError{Collection: "item-category", Err: errors.Join(errs...)}
	}
	return entries, nil
}

// LoadTypeMoves returns the moves of a type.
func (l *Loader) LoadTypeMoves(ctx context.Context, typeName string) ([]Entry, error) {
	return l.loadList(ctx, "type/"+typeName+"/moves", "/type/"+url.PathEscape(typeName), "moves", "")
}

// LoadTypePokemon returns the Pokémon having a type.
func (l *Loader) LoadTypePokemon(ctx context.Context, typeName string) ([]Entry, error) {
	return l.loadList(ctx, "type/"+typeName+"/pokemon", "/type/"+url.PathEscape(typeName), "pokemon", "pokemon")
}

// LoadAbilityPokemon returns the Pokémon that can have an ability.
func (l *Loader) LoadAbilityPokemon(ctx context.Context, ability string) ([]Entry, error) {
	return l.loadList(ctx, "ability/"+ability+"/pokemon", "/ability/"+url.PathEscape(ability), "pokemon", "pokemon")
}

// loadList fetches endpoint and extracts the {name, url} objects found at
// arrayPath. When itemPath is set each array element is unwrapped first
// (e.g. `{"pokemon": {"name": ..., "url": ...}, "slot": 1}`).
func (l *Loader) loadList(ctx context.Context, source, endpoint, arrayPath, itemPath string) ([]Entry, error) {
	start := time.Now()

	body, err := l.fetcher.Fetch(ctx, endpoint)
	if err != nil {
		l.logger.Warn().Err(err).Str("collection", source).Msg("Index load failed")
		return nil, &LoadError{Collection: source, Err: err}
	}

	entries, err := parseList(body, arrayPath, itemPath)
	if err != nil {
		l.logger.Warn().Err(err).Str("collection", source).Msg("Index response rejected")
		return nil, &LoadError{Collection: source, Err: err}
	}

	l.logger.Info().
		Str("collection", source).
		Int("entries", len(entries)).
		Dur("duration", time.Since(start)).
		Msg("Index loaded")

	return entries, nil
}

func parseList(body []byte, arrayPath, itemPath string) ([]Entry, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", errMalformed)
	}
	list := gjson.GetBytes(body, arrayPath)
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: %q is not an array", errMalformed, arrayPath)
	}

	items := list.Array()
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if itemPath != "" {
			item = item.Get(itemPath)
		}
		name := item.Get("name").String()
		if name == "" {
			continue
		}
		entries = append(entries, Entry{Name: name, Reference: item.Get("url").String()})
	}
	return entries, nil
}
