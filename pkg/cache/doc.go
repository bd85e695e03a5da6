// Package cache provides an HTTP response cache for upstream API calls.
//
// Upstream reference data is effectively immutable within a session, so
// fresh entries are served without any network call and expired entries are
// revalidated with a conditional request:
//
//   - TTL from Cache-Control max-age, then Expires, else DefaultTTL
//   - ETag support for conditional requests (If-None-Match)
//   - Last-Modified support (If-Modified-Since)
//   - expired entries retained for DefaultRetention to allow revalidation
//   - Prometheus metrics for observability
//   - deterministic cache key generation
//
// # Backends
//
//	// Shared cache for several processes
//	manager := cache.NewManager(cache.NewRedisStore(redisClient))
//
//	// Persistent local cache for the CLI
//	store, err := cache.OpenSQLiteStore("/home/me/.cache/pokedex.sqlite")
//	manager := cache.NewManager(store)
//
// # HTTP Response Caching
//
//	key := cache.CacheKey{Endpoint: req.URL.Path, QueryParams: req.URL.Query()}
//	entry, err := manager.Get(ctx, key)
//	switch {
//	case errors.Is(err, cache.ErrCacheMiss):
//		// fetch
//	case !entry.IsExpired():
//		return cache.EntryToResponse(entry, req), nil
//	case cache.ShouldMakeConditionalRequest(entry):
//		cache.AddConditionalHeaders(req, entry)
//	}
//
// # Metrics
//
//   - pokeapi_cache_hits_total{layer} - fresh hits
//   - pokeapi_cache_stale_total{layer} - expired entries found
//   - pokeapi_cache_misses_total - misses
//   - pokeapi_cache_writes_total{layer} - stored responses
//   - pokeapi_304_responses_total - successful revalidations
//   - pokeapi_conditional_requests_total - revalidation requests sent
//   - pokeapi_cache_errors_total{operation} - backend errors
package cache
