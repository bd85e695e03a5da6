// Package ratelimit tracks upstream throttling and gates requests while a
// cooldown is in effect.
//
// A 429 Too Many Requests response starts a cooldown whose length comes from
// the Retry-After header (delta-seconds or HTTP date). Until it ends the
// client refuses to send requests. The state lives in Redis when a client is
// configured, so several processes behind one IP share it, and in memory
// otherwise.
package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Redis keys for cooldown state storage.
const (
	RedisKeyCooldown = "pokeapi:rate_limit:cooldown"
)

const (
	// DefaultCooldown applies when a 429 carries no usable Retry-After.
	DefaultCooldown = 60 * time.Second

	// MaxCooldown caps server-provided Retry-After values.
	MaxCooldown = 15 * time.Minute
)

// CooldownState represents the current upstream cooldown.
type CooldownState struct {
	// Until is the moment requests may resume. Zero means no cooldown.
	Until time.Time `json:"until"`

	// LastUpdate is when the cooldown was started.
	LastUpdate time.Time `json:"last_update"`

	// StatusCode of the response that started the cooldown.
	StatusCode int `json:"status_code"`
}

// Active reports whether requests are currently blocked.
func (s *CooldownState) Active() bool {
	return time.Now().Before(s.Until)
}

// Remaining returns the duration until the cooldown ends, or 0.
func (s *CooldownState) Remaining() time.Duration {
	d := time.Until(s.Until)
	if d < 0 {
		return 0
	}
	return d
}

// ParseRetryAfter interprets a Retry-After header value relative to now.
// Empty, invalid or past values yield DefaultCooldown; values above
// MaxCooldown are capped.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultCooldown
	}

	var d time.Duration
	if secs, err := strconv.Atoi(value); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(value); err == nil {
		d = at.Sub(now)
	} else {
		return DefaultCooldown
	}

	switch {
	case d <= 0:
		return DefaultCooldown
	case d > MaxCooldown:
		return MaxCooldown
	}
	return d
}
