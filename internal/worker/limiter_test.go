package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1) // 100 rps, burst 1
	ctx := context.Background()

	if err := limiter.Wait(ctx, "10.0.0.1"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different client should also work
	if err := limiter.Wait(ctx, "10.0.0.2"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)
	ctx := context.Background()
	key := "10.0.0.1"

	// First request ok
	if err := limiter.Wait(ctx, key); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst 1 token is consumed; Allow must fail immediately
	if limiter.Allow(key) {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// Different client should be allowed
	if !limiter.Allow("10.0.0.2") {
		t.Errorf("expected allow for other client")
	}
}

func TestLimiter_SetKeyRate(t *testing.T) {
	limiter := NewLimiter(10, 10) // fast default
	key := "slow-client"

	// Set strict limit for specific client
	limiter.SetKeyRate(key, 0.1, 1) // very slow

	// First request passes (burst 1)
	if !limiter.Allow(key) {
		t.Errorf("first request should pass")
	}

	// Second request fails
	if limiter.Allow(key) {
		t.Errorf("second request should fail")
	}

	// Other client still fast
	if !limiter.Allow("fast-client") {
		t.Errorf("other client should pass")
	}
}
