// Package metrics provides the Prometheus registry used by the PokeAPI client
// and the pokedex services. All metrics are defined in their respective
// packages (client, cache, ratelimit, hydrate) to maintain modularity and
// avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer paired with Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the registered metrics in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Cooldown Metrics (pkg/ratelimit):
//   - pokeapi_cooldown_remaining_seconds (Gauge): Length of the most recently started cooldown
//   - pokeapi_rate_limited_responses_total (Counter): 429 responses received
//   - pokeapi_rate_limit_blocks_total (Counter): Requests refused locally during a cooldown
//
// Cache Metrics (pkg/cache):
//   - pokeapi_cache_hits_total{layer} (Counter): Fresh cache hits by backend
//   - pokeapi_cache_stale_total{layer} (Counter): Expired entries found (revalidation candidates)
//   - pokeapi_cache_misses_total (Counter): Cache misses
//   - pokeapi_cache_writes_total{layer} (Counter): Stored responses by backend
//   - pokeapi_304_responses_total (Counter): 304 Not Modified responses
//   - pokeapi_conditional_requests_total (Counter): Conditional requests sent
//   - pokeapi_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - pokeapi_requests_total{endpoint, status} (Counter): Requests by collection and outcome
//   - pokeapi_request_duration_seconds{endpoint} (Histogram): Request duration by collection
//   - pokeapi_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/client):
//   - pokeapi_retries_total{error_class} (Counter): Retry attempts by error class
//   - pokeapi_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - pokeapi_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Hydration Metrics (pkg/hydrate):
//   - pokedex_hydrate_cache_hits_total (Counter): Details served from the detail cache
//   - pokedex_hydrate_fetches_total (Counter): Detail fetches started
//   - pokedex_hydrate_inflight_joins_total (Counter): Callers that joined an in-flight fetch
//   - pokedex_hydrate_detail_failures_total (Counter): Entries dropped after a failed fetch
//   - pokedex_hydrate_stale_batches_total (Counter): Batches discarded by the generation guard
//   - pokedex_hydrate_batch_duration_seconds (Histogram): Page hydration duration
//
// Example Prometheus Queries:
//
//   # Response cache hit rate
//   sum(rate(pokeapi_cache_hits_total[5m])) /
//   (sum(rate(pokeapi_cache_hits_total[5m])) + sum(rate(pokeapi_cache_misses_total[5m])))
//
//   # Detail dedupe effectiveness
//   rate(pokedex_hydrate_inflight_joins_total[5m]) / rate(pokedex_hydrate_fetches_total[5m])
//
//   # Stale batch ratio (fast typing / paging)
//   rate(pokedex_hydrate_stale_batches_total[5m])
//
//   # P95 page hydration latency
//   histogram_quantile(0.95, rate(pokedex_hydrate_batch_duration_seconds_bucket[5m]))
