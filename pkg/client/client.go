// Package client provides the PokeAPI HTTP client with response caching,
// cooldown handling after rate limiting, and optional retries.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/pokeapi-client/pkg/cache"
	"github.com/Sternrassler/pokeapi-client/pkg/logging"
	"github.com/Sternrassler/pokeapi-client/pkg/ratelimit"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public PokeAPI v2 root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Client is the PokeAPI client.
type Client struct {
	httpClient  *http.Client
	rateLimiter *ratelimit.Tracker
	cache       *cache.Manager
	baseURL     *url.URL
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root that relative endpoints are resolved against.
	BaseURL string

	// User-Agent header sent with every request.
	UserAgent string

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration

	// Cache stores responses. Nil disables response caching.
	Cache cache.Store

	// Redis shares cooldown state between processes. Nil keeps it in memory.
	Redis *redis.Client

	// Retry. MaxRetries 0 sends every request exactly once.
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultConfig returns a default configuration without caching or retries.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
	}
}

// New creates a new PokeAPI client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}

	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max_retries must be >= 0 (got %d)", cfg.MaxRetries)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := logging.NewLogger(logging.ComponentClient)

	var manager *cache.Manager
	if cfg.Cache != nil {
		manager = cache.NewManager(cfg.Cache)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: ratelimit.NewTracker(cfg.Redis, logger),
		cache:       manager,
		baseURL:     base,
		config:      cfg,
		logger:      logger,
	}, nil
}

// Do performs an HTTP request with caching, cooldown gating and error handling.
//
// Every response with status >= 400 is turned into an *APIError and its body
// is closed. A 404 wraps ErrNotFound. While a cooldown is active requests
// that cannot be served from cache fail with ErrCooldown without touching
// the network.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := c.endpointLabel(req.URL.Path)

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	// Fresh cache entries never reach the network, even during a cooldown.
	cacheKey := cache.CacheKey{
		Endpoint:    req.URL.Path,
		QueryParams: req.URL.Query(),
	}

	var cachedEntry *cache.CacheEntry
	if c.cache != nil && req.Method == http.MethodGet {
		entry, err := c.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			cachedEntry = entry
		case !errors.Is(err, cache.ErrCacheMiss):
			c.logger.Warn().Err(err).Str("endpoint", req.URL.Path).Msg("Response cache unavailable, going upstream")
		}
	}

	if cachedEntry != nil && !cachedEntry.IsExpired() {
		c.logger.Debug().Str("endpoint", req.URL.Path).Dur("ttl", cachedEntry.TTL()).Msg("Cache hit")
		requestsTotal.WithLabelValues(endpoint, "cache_hit").Inc()
		return cache.EntryToResponse(cachedEntry, req), nil
	}

	// A recent 429 blocks everything else until the cooldown ends.
	allowed, wait, err := c.rateLimiter.ShouldAllowRequest(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Cooldown state unreadable")
		return nil, fmt.Errorf("cooldown check: %w", err)
	}
	if !allowed {
		c.logger.Warn().
			Str("endpoint", req.URL.Path).
			Dur("wait", wait).
			Msg("Upstream cooling down")
		requestsTotal.WithLabelValues(endpoint, "cooldown").Inc()
		return nil, fmt.Errorf("%w: retry in %s", ErrCooldown, wait.Round(time.Second))
	}

	// Stale entries with a validator are revalidated.
	if cachedEntry != nil && cache.ShouldMakeConditionalRequest(cachedEntry) {
		cache.AddConditionalHeaders(req, cachedEntry)
		cache.ConditionalRequestsSent.Inc()
		c.logger.Debug().
			Str("endpoint", req.URL.Path).
			Str("etag", cachedEntry.ETag).
			Msg("Revalidating cached response")
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", req.URL.Path).
		Str("method", req.Method).
		Msg("Executing upstream request")

	// MaxRetries 0 makes this a single attempt.
	var resp *http.Response
	attempt := 0
	retryErr := retryWithBackoff(ctx, c.retryConfig(), c.logger, func() error {
		attempt++
		if attempt > 1 {
			// A 429 from an earlier attempt started a cooldown.
			if allowed, wait, err := c.rateLimiter.ShouldAllowRequest(ctx); err != nil {
				return fmt.Errorf("cooldown check: %w", err)
			} else if !allowed {
				requestsTotal.WithLabelValues(endpoint, "cooldown").Inc()
				return fmt.Errorf("%w: retry in %s", ErrCooldown, wait.Round(time.Second))
			}
		}

		var reqErr error
		resp, reqErr = c.httpClient.Do(req)
		if reqErr != nil {
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			c.logger.Error().Err(reqErr).Str("endpoint", req.URL.Path).Msg("Upstream unreachable")
			resp = nil
			return &APIError{ErrorClass: ErrorClassNetwork, Message: "request failed", Err: reqErr}
		}

		if err := c.rateLimiter.UpdateFromResponse(ctx, resp); err != nil {
			c.logger.Warn().Err(err).Msg("Could not persist cooldown")
		}

		requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode < 400 {
			return nil
		}

		errClass := classifyStatus(resp.StatusCode)
		errorsTotal.WithLabelValues(string(errClass)).Inc()
		c.logger.Warn().
			Str("endpoint", req.URL.Path).
			Int("status_code", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Upstream request error")

		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
		}
		if resp.StatusCode == http.StatusNotFound {
			apiErr.Err = ErrNotFound
		}
		resp.Body.Close()
		resp = nil
		return apiErr
	})
	if retryErr != nil {
		return nil, retryErr
	}

	// Upstream confirmed the stale entry; extend it instead of re-reading the body.
	if resp.StatusCode == http.StatusNotModified && cachedEntry != nil {
		c.logger.Debug().Str("endpoint", req.URL.Path).Msg("Cached response still valid")
		cache.NotModifiedResponses.Inc()
		resp.Body.Close()

		newExpires := cache.ExpiresFromHeaders(resp.Header, time.Now())
		if err := c.cache.UpdateTTL(ctx, cacheKey, newExpires); err != nil {
			c.logger.Warn().Err(err).Msg("Could not extend cached response")
		}
		cachedEntry.Expires = newExpires

		revalidated := cache.EntryToResponse(cachedEntry, req)
		revalidated.Header.Set("X-Cache", "REVALIDATED")
		return revalidated, nil
	}

	if resp.StatusCode == http.StatusOK && c.cache != nil && req.Method == http.MethodGet {
		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			resp.Body.Close()
			return nil, &APIError{ErrorClass: ErrorClassNetwork, StatusCode: resp.StatusCode, Message: "read body", Err: err}
		}
		if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Msg("Could not store response")
		} else {
			c.logger.Debug().
				Str("endpoint", req.URL.Path).
				Dur("ttl", entry.TTL()).
				Msg("Stored response")
		}
	}

	return resp, nil
}

func (c *Client) retryConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = c.config.MaxRetries + 1
	cfg.InitialBackoff = c.config.InitialBackoff
	cfg.MaxBackoff = c.config.MaxBackoff
	return cfg
}

// classifyStatus categorizes an HTTP error status.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}

// endpointLabel reduces a request path to its resource collection so the
// metric label set stays bounded ("/api/v2/pokemon/25" -> "pokemon").
func (c *Client) endpointLabel(path string) string {
	path = strings.TrimPrefix(path, c.baseURL.Path)
	path = strings.Trim(path, "/")
	if path == "" {
		return "root"
	}
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}

// URL resolves endpoint against the base URL. Absolute URLs, such as the
// references returned inside list responses, are returned unchanged.
func (c *Client) URL(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return c.baseURL.String() + "/" + strings.TrimLeft(endpoint, "/")
}

// Get performs a GET request to an endpoint.
func (c *Client) Get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(endpoint), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return c.Do(req)
}

// Fetch performs a GET request and returns the body of a 200 response.
func (c *Client) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	resp, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassClient,
			Message:    "unexpected status " + resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{ErrorClass: ErrorClassNetwork, StatusCode: resp.StatusCode, Message: "read body", Err: err}
	}
	return body, nil
}

// Ready reports whether the configured cache backend is reachable.
func (c *Client) Ready(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Ping(ctx)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// GetCache returns the cache manager, nil when caching is disabled.
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}

// RateLimiter returns the cooldown tracker.
func (c *Client) RateLimiter() *ratelimit.Tracker {
	return c.rateLimiter
}
