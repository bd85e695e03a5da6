package pokedex

import (
	"context"
	"strings"

	"github.com/Sternrassler/pokeapi-client/pkg/hydrate"
	"github.com/Sternrassler/pokeapi-client/pkg/index"
	"github.com/Sternrassler/pokeapi-client/pkg/logging"
	"github.com/Sternrassler/pokeapi-client/pkg/pagination"
	"github.com/rs/zerolog"
)

// ListResult is one page of the Pokemon passthrough listing.
type ListResult struct {
	TotalCount int       `json:"totalCount"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	Results    []Summary `json:"results"`
}

// Service serves paged Pokemon listings and single records. Its detail cache
// is shared by all callers, so concurrent requests for overlapping pages
// share in-flight fetches.
type Service struct {
	loader  *index.Loader
	details hydrate.DetailFunc[Pokemon]
	cache   *hydrate.Cache[Pokemon]
	batches *pagination.BatchFetcher[index.Entry, Pokemon]
	logger  zerolog.Logger
}

// NewService creates a service on top of fetcher. maxConcurrency bounds the
// detail fetches of one page; 0 fetches the whole page at once.
func NewService(fetcher index.Fetcher, maxConcurrency int) *Service {
	return &Service{
		loader:  index.NewLoader(fetcher),
		details: PokemonDetails(fetcher),
		cache:   hydrate.NewCache[Pokemon](),
		batches: pagination.NewBatchFetcher[index.Entry, Pokemon](pagination.Config{MaxConcurrency: maxConcurrency}),
		logger:  logging.NewLogger(logging.ComponentPokedex),
	}
}

// Cache returns the shared detail cache.
func (s *Service) Cache() *hydrate.Cache[Pokemon] {
	return s.cache
}

// ListPokemon returns page (1-based) of pageSize Pokemon using upstream
// pagination. Entries whose details cannot be fetched are omitted.
func (s *Service) ListPokemon(ctx context.Context, page, pageSize int) (ListResult, error) {
	p, err := s.loader.LoadPage(ctx, index.Pokemon, (page-1)*pageSize, pageSize)
	if err != nil {
		return ListResult{}, err
	}

	results := s.batches.FetchAll(ctx, p.Entries, func(ctx context.Context, e index.Entry) (Pokemon, error) {
		return s.cache.Resolve(ctx, e, s.details)
	})

	out := ListResult{
		TotalCount: p.Count,
		Page:       page,
		PageSize:   pageSize,
		Results:    make([]Summary, 0, len(results)),
	}
	for _, r := range results {
		if r.Error != nil {
			s.logger.Warn().
				Err(&hydrate.DetailFetchError{Name: r.Input.Name, Err: r.Error}).
				Str("name", r.Input.Name).
				Msg("Dropping entry from listing")
			continue
		}
		out.Results = append(out.Results, r.Value.Summary())
	}
	return out, nil
}

// GetPokemon returns the record for a name or numeric id. The lookup key is
// lowercased.
func (s *Service) GetPokemon(ctx context.Context, nameOrID string) (Pokemon, error) {
	key := strings.ToLower(strings.TrimSpace(nameOrID))
	return s.cache.Resolve(ctx, index.Entry{Name: key}, s.details)
}
