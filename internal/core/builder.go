package core

import (
	"cmp"
	"errors"
	"slices"

	"github.com/Keksclan/goFlowSquirrel/flow"
)

// entry pairs a Stage with a deterministic execution order. Lower Order
// values run further out (earlier on the way in, later on the way out).
type entry struct {
	Stage Stage
	Order int
}

// Builder collects stages and produces the composed chain. Registration
// order is preserved among stages with equal Order (stable sort).
type Builder struct {
	entries []entry
}

// Add registers a stage with the given order.
func (b *Builder) Add(order int, s Stage) {
	b.entries = append(b.entries, entry{Stage: s, Order: order})
}

// Len returns the number of registered stages.
func (b *Builder) Len() int { return len(b.entries) }

// Stages sorts the collected entries by Order (stable) and returns the
// resulting stage sequence, outermost first.
func (b *Builder) Stages() []Stage {
	slices.SortStableFunc(b.entries, func(a, c entry) int {
		return cmp.Compare(a.Order, c.Order)
	})
	out := make([]Stage, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Stage
	}
	return out
}

// Compose nests the stages around the terminal handler: the first stage is
// outermost. Every layer tags errors that bubble through it untagged, so a
// failure always carries the name of the stage it originated in — an error
// coming out of next is already tagged by a deeper layer, so an untagged
// error must be the stage's own.
func Compose(stages []Stage, handlerName string, h flow.Handler) flow.Handler {
	next := tagHandler(handlerName, h)
	for i := len(stages) - 1; i >= 0; i-- {
		next = tagStage(stages[i].Name, stages[i].MW(next))
	}
	return next
}

func tagHandler(name string, h flow.Handler) flow.Handler {
	return func(ctx *flow.Context) error {
		if err := h(ctx); err != nil {
			return flow.HandlerError(name, err)
		}
		return nil
	}
}

func tagStage(name string, h flow.Handler) flow.Handler {
	return func(ctx *flow.Context) error {
		err := h(ctx)
		if err == nil {
			return nil
		}
		var se *flow.StageError
		if errors.As(err, &se) {
			return err
		}
		return flow.MiddlewareError(name, err)
	}
}
