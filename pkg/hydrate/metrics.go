package hydrate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits counts details served from a hydrator cache.
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokedex_hydrate_cache_hits_total",
		Help: "Total number of details served from the hydrator cache",
	})

	// detailFetches counts detail fetches issued to the collaborator.
	detailFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokedex_hydrate_fetches_total",
		Help: "Total number of detail fetches issued",
	})

	// inflightJoins counts requests that awaited an already running fetch.
	inflightJoins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokedex_hydrate_inflight_joins_total",
		Help: "Total number of detail requests joined to an in-flight fetch",
	})

	// detailFailures counts entries dropped from a page.
	detailFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokedex_hydrate_detail_failures_total",
		Help: "Total number of detail fetches that failed and were dropped",
	})

	// staleBatches counts batch results discarded by the generation guard.
	staleBatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokedex_hydrate_stale_batches_total",
		Help: "Total number of superseded batches whose results were discarded",
	})

	// batchDuration observes hydration batch latency.
	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pokedex_hydrate_batch_duration_seconds",
		Help:    "Duration of page hydration batches",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
)
