package ratelimit

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

// trackers returns one in-memory and one Redis-backed tracker.
func trackers(t *testing.T) map[string]*Tracker {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]*Tracker{
		"memory": NewTracker(nil, testLogger()),
		"redis":  NewTracker(client, testLogger()),
	}
}

func tooManyRequests(retryAfter string) *http.Response {
	h := http.Header{}
	if retryAfter != "" {
		h.Set("Retry-After", retryAfter)
	}
	return &http.Response{StatusCode: http.StatusTooManyRequests, Header: h}
}

func TestTracker_DefaultAllows(t *testing.T) {
	ctx := context.Background()
	for name, tracker := range trackers(t) {
		t.Run(name, func(t *testing.T) {
			allowed, wait, err := tracker.ShouldAllowRequest(ctx)
			if err != nil {
				t.Fatalf("ShouldAllowRequest() error = %v", err)
			}
			if !allowed || wait != 0 {
				t.Errorf("ShouldAllowRequest() = (%v, %v), want (true, 0)", allowed, wait)
			}
		})
	}
}

func TestTracker_UpdateFromResponse(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		resp        *http.Response
		wantBlocked bool
		wantMin     time.Duration
	}{
		{"ok response", &http.Response{StatusCode: 200, Header: http.Header{}}, false, 0},
		{"server error", &http.Response{StatusCode: 503, Header: http.Header{}}, false, 0},
		{"nil response", nil, false, 0},
		{"429 with seconds", tooManyRequests("30"), true, 25 * time.Second},
		{"429 without retry-after", tooManyRequests(""), true, DefaultCooldown - 5*time.Second},
	}

	for _, tt := range tests {
		for name, tracker := range trackers(t) {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				if err := tracker.UpdateFromResponse(ctx, tt.resp); err != nil {
					t.Fatalf("UpdateFromResponse() error = %v", err)
				}

				allowed, wait, err := tracker.ShouldAllowRequest(ctx)
				if err != nil {
					t.Fatalf("ShouldAllowRequest() error = %v", err)
				}
				if allowed == tt.wantBlocked {
					t.Errorf("allowed = %v, want %v", allowed, !tt.wantBlocked)
				}
				if tt.wantBlocked && wait < tt.wantMin {
					t.Errorf("wait = %v, want >= %v", wait, tt.wantMin)
				}
			})
		}
	}
}

func TestTracker_LongerCooldownWins(t *testing.T) {
	ctx := context.Background()
	for name, tracker := range trackers(t) {
		t.Run(name, func(t *testing.T) {
			if err := tracker.StartCooldown(ctx, 2*time.Minute, 429); err != nil {
				t.Fatal(err)
			}
			if err := tracker.StartCooldown(ctx, 5*time.Second, 429); err != nil {
				t.Fatal(err)
			}

			state, err := tracker.GetState(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if state.Remaining() < time.Minute {
				t.Errorf("Remaining() = %v, shorter cooldown replaced longer one", state.Remaining())
			}
		})
	}
}

func TestTracker_Reset(t *testing.T) {
	ctx := context.Background()
	for name, tracker := range trackers(t) {
		t.Run(name, func(t *testing.T) {
			if err := tracker.UpdateFromResponse(ctx, tooManyRequests("60")); err != nil {
				t.Fatal(err)
			}
			if err := tracker.Reset(ctx); err != nil {
				t.Fatalf("Reset() error = %v", err)
			}
			allowed, _, err := tracker.ShouldAllowRequest(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if !allowed {
				t.Error("request blocked after Reset()")
			}
		})
	}
}

func TestTracker_RedisExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	tracker := NewTracker(client, testLogger())

	if err := tracker.UpdateFromResponse(ctx, tooManyRequests("10")); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists(RedisKeyCooldown) {
		t.Fatal("cooldown not stored in redis")
	}
	if ttl := mr.TTL(RedisKeyCooldown); ttl <= 0 || ttl > 10*time.Second {
		t.Errorf("redis TTL = %v, want (0, 10s]", ttl)
	}

	mr.FastForward(11 * time.Second)
	if mr.Exists(RedisKeyCooldown) {
		t.Error("cooldown key should expire with the cooldown")
	}
}

func TestTracker_SharedAcrossInstances(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	first := NewTracker(client, testLogger())
	second := NewTracker(client, testLogger())

	if err := first.UpdateFromResponse(ctx, tooManyRequests("60")); err != nil {
		t.Fatal(err)
	}
	allowed, _, err := second.ShouldAllowRequest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Error("second tracker should observe cooldown stored by the first")
	}
}

func TestTracker_CorruptState(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	tracker := NewTracker(client, testLogger())

	if err := mr.Set(RedisKeyCooldown, "{"); err != nil {
		t.Fatal(err)
	}
	allowed, _, err := tracker.ShouldAllowRequest(ctx)
	if err == nil {
		t.Error("expected error for corrupt state")
	}
	if allowed {
		t.Error("corrupt state should not allow request")
	}
}
