package flow_test

import (
	"reflect"
	"testing"

	"github.com/Keksclan/goFlowSquirrel/flow"
)

func appendmw(name string, trace *[]string) flow.Middleware {
	return func(next flow.Handler) flow.Handler {
		return func(ctx *flow.Context) error {
			*trace = append(*trace, name+".in")
			err := next(ctx)
			*trace = append(*trace, name+".out")
			return err
		}
	}
}

func TestChainFirstIsOutermost(t *testing.T) {
	var trace []string
	h := flow.Chain(appendmw("a", &trace), appendmw("b", &trace))(func(ctx *flow.Context) error {
		trace = append(trace, "h")
		return nil
	})

	if err := h(flow.NewContext(flow.Event{})); err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	want := []string{"a.in", "b.in", "h", "b.out", "a.out"}
	if !reflect.DeepEqual(trace, want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
}

func TestWrapNoMiddleware(t *testing.T) {
	called := false
	h := flow.Wrap(func(ctx *flow.Context) error {
		called = true
		return nil
	})
	if err := h(flow.NewContext(flow.Event{})); err != nil {
		t.Fatalf("wrap failed: %v", err)
	}
	if !called {
		t.Fatal("handler not invoked")
	}
}

func TestWrapEquivalentToChain(t *testing.T) {
	var wrapTrace, chainTrace []string
	h := func(ctx *flow.Context) error { return nil }

	wrapped := flow.Wrap(h, appendmw("m", &wrapTrace))
	chained := flow.Chain(appendmw("m", &chainTrace))(h)

	if err := wrapped(flow.NewContext(flow.Event{})); err != nil {
		t.Fatalf("wrap failed: %v", err)
	}
	if err := chained(flow.NewContext(flow.Event{})); err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	if !reflect.DeepEqual(wrapTrace, chainTrace) {
		t.Fatalf("Wrap and Chain diverge: %v vs %v", wrapTrace, chainTrace)
	}
}
