package pagination

import (
	"context"
	"sync"
	"time"

	"github.com/Sternrassler/pokeapi-client/pkg/logging"
	"github.com/rs/zerolog"
)

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel fetches.
	// Zero means one worker per input, i.e. the whole batch in flight at once.
	MaxConcurrency int
	// Timeout per item fetch (zero: none, the collaborator's transport decides)
	Timeout time.Duration
}

// DefaultConfig returns a configuration that fans out the whole batch.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 0,
		Timeout:        0,
	}
}

// FetchFunc resolves a single input.
type FetchFunc[In, Out any] func(ctx context.Context, in In) (Out, error)

// Result is the outcome of fetching the input at Index.
type Result[In, Out any] struct {
	Index int
	Input In
	Value Out
	Error error
}

// BatchFetcher resolves batches of inputs in parallel.
type BatchFetcher[In, Out any] struct {
	config Config
	logger zerolog.Logger
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher[In, Out any](config Config) *BatchFetcher[In, Out] {
	if config.MaxConcurrency < 0 {
		config.MaxConcurrency = 0
	}
	if config.Timeout < 0 {
		config.Timeout = 0
	}
	return &BatchFetcher[In, Out]{
		config: config,
		logger: logging.NewLogger(logging.ComponentBatchFetcher),
	}
}

// FetchAll resolves every input and returns one result per input, in input
// order. The call returns once all fetches have finished; partial results are
// never handed out. A cancelled context marks unstarted inputs with ctx.Err().
func (bf *BatchFetcher[In, Out]) FetchAll(ctx context.Context, inputs []In, fetch FetchFunc[In, Out]) []Result[In, Out] {
	results := make([]Result[In, Out], len(inputs))
	if len(inputs) == 0 {
		return results
	}

	start := time.Now()
	workers := bf.config.MaxConcurrency
	if workers == 0 || workers > len(inputs) {
		workers = len(inputs)
	}

	queue := make(chan int, len(inputs))
	for i := range inputs {
		queue <- i
	}
	close(queue)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go bf.worker(ctx, inputs, fetch, queue, results, &wg, w)
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}

	bf.logger.Debug().
		Int("items", len(inputs)).
		Int("failed", failed).
		Int("workers", workers).
		Dur("duration", time.Since(start)).
		Msg("Batch fetch complete")

	return results
}

// worker processes indexes from the queue. Each index is owned by exactly one
// worker, so results are written positionally without locking.
func (bf *BatchFetcher[In, Out]) worker(ctx context.Context, inputs []In, fetch FetchFunc[In, Out], queue <-chan int, results []Result[In, Out], wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	processed := 0

	for i := range queue {
		results[i] = Result[In, Out]{Index: i, Input: inputs[i]}

		if err := ctx.Err(); err != nil {
			results[i].Error = err
			continue
		}

		itemCtx, cancel := ctx, context.CancelFunc(func() {})
		if bf.config.Timeout > 0 {
			itemCtx, cancel = context.WithTimeout(ctx, bf.config.Timeout)
		}
		results[i].Value, results[i].Error = fetch(itemCtx, inputs[i])
		cancel()

		processed++
	}

	bf.logger.Trace().
		Int("worker_id", workerID).
		Int("processed", processed).
		Msg("Worker completed")
}
