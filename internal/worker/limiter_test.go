package worker

import (
	"context"
	"testing"
	"time"
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
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "fireworks"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "anthropic"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)

	if err := limiter.Wait(context.Background(), "fireworks"); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Wait() blocks. Allow() returns false immediately.
	if limiter.Allow("fireworks") {
		t.Error("expected second request to be limited")
	}

	// Other providers have their own bucket
	if !limiter.Allow("ollama") {
		t.Error("expected other provider to be allowed")
	}
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	_ = limiter.Allow("slow")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx, "slow"); err == nil {
		t.Error("expected wait to fail when the context expires first")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 10; i++ {
		if !limiter.Allow("any") {
			t.Fatalf("request %d limited with limiting disabled", i)
		}
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(100, 10)
	limiter.SetRate("together", 1, 1)

	if !limiter.Allow("together") {
		t.Error("first request should be allowed")
	}
	if limiter.Allow("together") {
		t.Error("second request should be limited by the custom rate")
	}
	if !limiter.Allow("fireworks") {
		t.Error("default rate should still apply elsewhere")
	}
}
