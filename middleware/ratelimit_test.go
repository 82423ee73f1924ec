package middleware_test

import (
	"testing"
	"time"

	"github.com/Keksclan/goFlowSquirrel/flow"
	"github.com/Keksclan/goFlowSquirrel/middleware"
	"github.com/Keksclan/goFlowSquirrel/policy"
	"github.com/Keksclan/goFlowSquirrel/ratelimit"
)

func TestRateLimitRejectsWith429(t *testing.T) {
	// One token, no refill within the test window.
	global := ratelimit.NewLimiter(0.001, 1)

	calls := 0
	h := middleware.RateLimit(global, nil)(func(ctx *flow.Context) error {
		calls++
		ctx.SetStatus(200)
		return nil
	})

	first := flow.NewContext(flow.Event{Path: "/x"})
	if err := h(first); err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	if first.Status() != 200 {
		t.Fatalf("first request should pass, status = %d", first.Status())
	}

	second := flow.NewContext(flow.Event{Path: "/x"})
	if err := h(second); err != nil {
		t.Fatalf("rejection must not error: %v", err)
	}
	if second.Status() != 429 {
		t.Fatalf("status = %d, want 429", second.Status())
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times", calls)
	}
}

func TestRateLimitPerGroupPolicy(t *testing.T) {
	// Generous global limiter; the /api group gets a 1-per-minute policy.
	global := ratelimit.NewLimiter(1000, 1000)
	resolver := policy.NewResolver(
		policy.Group("api").Prefix("/api").Policy(policy.Policy{
			RateLimit: &policy.RateLimitRule{Rate: 1, Window: time.Minute},
		}),
	)

	h := middleware.RateLimit(global, resolver)(func(ctx *flow.Context) error {
		ctx.SetStatus(200)
		return nil
	})

	run := func(path string) int {
		ctx := flow.NewContext(flow.Event{Path: path})
		if err := h(ctx); err != nil {
			t.Fatalf("chain failed: %v", err)
		}
		return ctx.Status()
	}

	if got := run("/api/v1/list"); got != 200 {
		t.Fatalf("first group request should pass, got %d", got)
	}
	if got := run("/api/v1/list"); got != 429 {
		t.Fatalf("second group request should be limited, got %d", got)
	}
	// Paths outside the group fall back to the global limiter.
	if got := run("/other"); got != 200 {
		t.Fatalf("ungrouped path hit the group limiter, got %d", got)
	}
}
