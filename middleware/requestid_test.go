package middleware_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Keksclan/goFlowSquirrel/flow"
	"github.com/Keksclan/goFlowSquirrel/middleware"
)

func TestRequestIDAssigned(t *testing.T) {
	h := middleware.RequestID()(func(ctx *flow.Context) error {
		return nil
	})

	ctx := flow.NewContext(flow.Event{})
	if err := h(ctx); err != nil {
		t.Fatalf("chain failed: %v", err)
	}

	v, ok := ctx.Attr(middleware.RequestIDAttr)
	if !ok {
		t.Fatal("request ID attribute missing")
	}
	id, err := uuid.Parse(v.(string))
	if err != nil {
		t.Fatalf("request ID is not a UUID: %v", err)
	}
	if ctx.ResponseHeader("X-Request-Id") != id.String() {
		t.Fatal("response header does not echo the request ID")
	}
}

func TestRequestIDKeepsExisting(t *testing.T) {
	h := middleware.RequestID()(middleware.RequestID()(func(ctx *flow.Context) error {
		return nil
	}))

	ctx := flow.NewContext(flow.Event{})
	if err := h(ctx); err != nil {
		t.Fatalf("chain failed: %v", err)
	}

	v, _ := ctx.Attr(middleware.RequestIDAttr)
	if ctx.ResponseHeader("X-Request-Id") != v.(string) {
		t.Fatal("re-applied stage replaced the request ID")
	}
}

func TestRequestIDReplacesNonStringAttribute(t *testing.T) {
	h := middleware.RequestID()(func(ctx *flow.Context) error { return nil })

	ctx := flow.NewContext(flow.Event{})
	ctx.SetAttr(middleware.RequestIDAttr, 12345)

	if err := h(ctx); err != nil {
		t.Fatalf("chain failed: %v", err)
	}

	v, ok := ctx.Attr(middleware.RequestIDAttr)
	if !ok {
		t.Fatal("request ID attribute missing")
	}
	s, ok := v.(string)
	if !ok {
		t.Fatalf("attribute still holds a non-string: %T", v)
	}
	if _, err := uuid.Parse(s); err != nil {
		t.Fatalf("replacement ID is not a UUID: %v", err)
	}
	if ctx.ResponseHeader("X-Request-Id") != s {
		t.Fatal("response header does not echo the replacement ID")
	}
}

func TestRequestIDsAreUnique(t *testing.T) {
	h := middleware.RequestID()(func(ctx *flow.Context) error { return nil })

	seen := make(map[string]bool)
	for range 100 {
		ctx := flow.NewContext(flow.Event{})
		if err := h(ctx); err != nil {
			t.Fatalf("chain failed: %v", err)
		}
		id := ctx.ResponseHeader("X-Request-Id")
		if seen[id] {
			t.Fatalf("duplicate request ID %q", id)
		}
		seen[id] = true
	}
}
