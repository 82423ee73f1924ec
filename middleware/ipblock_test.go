package middleware_test

import (
	"testing"

	"github.com/Keksclan/goFlowSquirrel/flow"
	"github.com/Keksclan/goFlowSquirrel/middleware"
	"github.com/Keksclan/goFlowSquirrel/security"
)

func TestIPBlockAllowsPermittedAddress(t *testing.T) {
	b, err := security.NewIPBlocker(security.Config{
		Mode:  security.AllowList,
		CIDRs: []string{"10.0.0.0/8"},
	})
	if err != nil {
		t.Fatalf("blocker: %v", err)
	}

	called := false
	h := middleware.IPBlock(b)(func(ctx *flow.Context) error {
		called = true
		ctx.SetStatus(200)
		return nil
	})

	ctx := flow.NewContext(flow.Event{RemoteAddr: "10.1.2.3:5555"})
	if err := h(ctx); err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	if !called || ctx.Status() != 200 {
		t.Fatalf("permitted address was blocked: called=%v status=%d", called, ctx.Status())
	}
}

func TestIPBlockDeniesWith403(t *testing.T) {
	b, err := security.NewIPBlocker(security.Config{
		Mode:  security.AllowList,
		CIDRs: []string{"10.0.0.0/8"},
	})
	if err != nil {
		t.Fatalf("blocker: %v", err)
	}

	called := false
	h := middleware.IPBlock(b)(func(ctx *flow.Context) error {
		called = true
		return nil
	})

	ctx := flow.NewContext(flow.Event{RemoteAddr: "192.168.1.1:5555"})
	if err := h(ctx); err != nil {
		t.Fatalf("denial must not error: %v", err)
	}
	if called {
		t.Fatal("handler must not run for a blocked address")
	}
	if ctx.Status() != 403 {
		t.Fatalf("status = %d, want 403", ctx.Status())
	}
}
