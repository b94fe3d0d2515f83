// Package retry wraps outbound provider calls with jitter and rate-limit aware retries.
package retry

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"time"
)

// Policy describes how a call is attempted and retried.
type Policy struct {
	MaxAttempts int
	Cooldown    time.Duration
	JitterMin   time.Duration
	JitterMax   time.Duration
	Retryable   func(error) bool
	// Sleep waits for d or until ctx is done. Defaults to a timer based wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Default returns the policy applied to every provider call: a 0.5-1.5s
// jitter before each attempt and one retry after 5s on rate limiting.
func Default() *Policy {
	return &Policy{
		MaxAttempts: 2,
		Cooldown:    5 * time.Second,
		JitterMin:   500 * time.Millisecond,
		JitterMax:   1500 * time.Millisecond,
		Retryable:   IsRateLimited,
	}
}

// Do runs fn under the policy. The error of the final attempt is returned as is.
func (p *Policy) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if p == nil {
		return fn(ctx)
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if serr := p.sleep(ctx, p.jitter()); serr != nil {
			return serr
		}
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if attempt == attempts || p.Retryable == nil || !p.Retryable(err) {
			if attempt > 1 {
				slog.Error("retry: call failed after retry", "call", name, "attempts", attempt, "err", err)
			}
			return err
		}
		slog.Warn("retry: rate limited, cooling down", "call", name, "attempt", attempt, "cooldown", p.Cooldown, "err", err)
		if serr := p.sleep(ctx, p.Cooldown); serr != nil {
			return serr
		}
	}
	return err
}

// Value is Do for calls that return a result.
func Value[T any](ctx context.Context, p *Policy, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, name, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func (p *Policy) jitter() time.Duration {
	if p.JitterMax <= p.JitterMin {
		return p.JitterMin
	}
	return p.JitterMin + time.Duration(rand.Int63n(int64(p.JitterMax-p.JitterMin)))
}

func (p *Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// A bare "429" would also match ids and URLs quoted in error text.
var rateLimitSignals = []string{
	"rate limit", "ratelimit", "rate_limit", "ratelimited", "too many requests",
	"status=429", "status 429", "status: 429", "status code: 429", "http 429",
}

// IsRateLimited reports whether the error text signals rate limiting.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range rateLimitSignals {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
