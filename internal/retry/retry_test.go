package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func noSleep(p *Policy) *Policy {
	var slept []time.Duration
	p.Sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return p
}

func TestRetryOnceOnRateLimit(t *testing.T) {
	p := noSleep(Default())
	calls := 0
	err := p.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("newsapi: rateLimited: You have made too many requests")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestSecondFailurePropagatesUnchanged(t *testing.T) {
	p := noSleep(Default())
	second := errors.New("HTTP 429 Too Many Requests (again)")
	calls := 0
	err := p.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("Rate limit exceeded")
		}
		return second
	})
	if err != second {
		t.Fatalf("expected second error unchanged, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", calls)
	}
}

func TestNonRateLimitErrorNotRetried(t *testing.T) {
	p := noSleep(Default())
	calls := 0
	boom := errors.New("connection refused")
	err := p.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestJitterAndCooldownApplied(t *testing.T) {
	p := Default()
	var slept []time.Duration
	p.Sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	calls := 0
	_ = p.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("too many requests")
		}
		return nil
	})
	// jitter, cooldown, jitter
	if len(slept) != 3 {
		t.Fatalf("expected 3 sleeps, got %v", slept)
	}
	for _, i := range []int{0, 2} {
		if slept[i] < p.JitterMin || slept[i] >= p.JitterMax {
			t.Errorf("jitter %d out of range: %v", i, slept[i])
		}
	}
	if slept[1] != p.Cooldown {
		t.Errorf("expected cooldown %v, got %v", p.Cooldown, slept[1])
	}
}

func TestValueReturnsResult(t *testing.T) {
	p := noSleep(Default())
	got, err := Value(context.Background(), p, "value", func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestIsRateLimited(t *testing.T) {
	cases := map[string]bool{
		"RATE LIMIT hit":          true,
		"status=429 body=...":     true,
		"HTTP 429 slow down":      true,
		"status 429 code=limited": true,
		"fetch /news/4290 failed": false,
		"Too Many Requests":       true,
		"rateLimited: slow down":  true,
		"validation_error: bad":   false,
		"context deadline exceed": false,
	}
	for msg, want := range cases {
		if got := IsRateLimited(errors.New(msg)); got != want {
			t.Errorf("IsRateLimited(%q) = %v, want %v", msg, got, want)
		}
	}
	if IsRateLimited(nil) {
		t.Error("nil error must not be rate limited")
	}
}

func TestIsRateLimitedIgnoresIDs(t *testing.T) {
	err := errors.New("status=400 code=validation_error: block 4f1c4290-429a-4b7e-9429-0d2b1e8f6a11 is invalid")
	if IsRateLimited(err) {
		t.Errorf("IsRateLimited(%q) = true", err)
	}
	err = errors.New("error, status code: 429, status: 429 Too Many Requests, message: slow down")
	if !IsRateLimited(err) {
		t.Errorf("IsRateLimited(%q) = false", err)
	}
}
