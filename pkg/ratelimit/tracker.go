package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for cooldown tracking.
var (
	cooldownRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pokeapi_cooldown_remaining_seconds",
		Help: "Seconds left in the current upstream cooldown when it was last started",
	})

	rateLimitedResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokeapi_rate_limited_responses_total",
		Help: "Total number of 429 responses received from the upstream API",
	})

	rateLimitBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokeapi_rate_limit_blocks_total",
		Help: "Total number of requests refused locally during a cooldown",
	})
)

// Tracker records upstream cooldowns and gates requests.
type Tracker struct {
	redis  *redis.Client
	logger zerolog.Logger

	mu    sync.Mutex
	local CooldownState
}

// NewTracker creates a tracker. redisClient may be nil, in which case the
// cooldown is kept in process memory.
func NewTracker(redisClient *redis.Client, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:  redisClient,
		logger: logger,
	}
}

// GetState returns the current cooldown state. A missing state means no
// cooldown and is returned as a zero CooldownState.
func (t *Tracker) GetState(ctx context.Context) (*CooldownState, error) {
	if t.redis == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		state := t.local
		return &state, nil
	}

	raw, err := t.redis.Get(ctx, RedisKeyCooldown).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &CooldownState{}, nil
		}
		return nil, fmt.Errorf("get cooldown: %w", err)
	}

	var state CooldownState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("parse cooldown: %w", err)
	}
	return &state, nil
}

// UpdateFromResponse starts a cooldown when resp is a 429. Other responses
// are ignored.
func (t *Tracker) UpdateFromResponse(ctx context.Context, resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}
	rateLimitedResponsesTotal.Inc()

	d := ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	return t.StartCooldown(ctx, d, resp.StatusCode)
}

// StartCooldown blocks requests for d. A shorter cooldown never replaces a
// longer one that is already running.
func (t *Tracker) StartCooldown(ctx context.Context, d time.Duration, statusCode int) error {
	if d <= 0 {
		return nil
	}

	current, err := t.GetState(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	until := now.Add(d)
	if current.Until.After(until) {
		return nil
	}

	state := CooldownState{Until: until, LastUpdate: now, StatusCode: statusCode}

	if t.redis == nil {
		t.mu.Lock()
		t.local = state
		t.mu.Unlock()
	} else {
		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("marshal cooldown: %w", err)
		}
		if err := t.redis.Set(ctx, RedisKeyCooldown, data, d).Err(); err != nil {
			return fmt.Errorf("store cooldown in redis: %w", err)
		}
	}

	cooldownRemaining.Set(d.Seconds())
	t.logger.Warn().
		Int("status_code", statusCode).
		Dur("cooldown", d).
		Time("until", until).
		Msg("Upstream rate limit hit - pausing requests")

	return nil
}

// Reset clears any cooldown.
func (t *Tracker) Reset(ctx context.Context) error {
	cooldownRemaining.Set(0)
	if t.redis == nil {
		t.mu.Lock()
		t.local = CooldownState{}
		t.mu.Unlock()
		return nil
	}
	if err := t.redis.Del(ctx, RedisKeyCooldown).Err(); err != nil {
		return fmt.Errorf("clear cooldown: %w", err)
	}
	return nil
}

// ShouldAllowRequest reports whether a request may be sent now. When it may
// not, the returned duration is the time left in the cooldown.
func (t *Tracker) ShouldAllowRequest(ctx context.Context) (bool, time.Duration, error) {
	state, err := t.GetState(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("get cooldown state: %w", err)
	}

	if state.Active() {
		wait := state.Remaining()
		t.logger.Debug().
			Dur("wait_duration", wait).
			Msg("Cooldown active - blocking request")
		rateLimitBlocksTotal.Inc()
		return false, wait, nil
	}

	return true, 0, nil
}
