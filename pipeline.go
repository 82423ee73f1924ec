// Package goflowsquirrel provides a composable request-processing pipeline:
// an immutable chain of named middleware stages around a terminal handler,
// built once via functional [Option] values and executed by the dispatch
// package, synchronously or asynchronously.
//
// Example:
//
//	pipe, err := gf.New(myHandler,
//		gf.WithRecovery(),
//		gf.WithCookies(),
//		gf.Use("audit", myAuditMiddleware),
//	)
package goflowsquirrel

import (
	"github.com/Keksclan/goFlowSquirrel/flow"
	"github.com/Keksclan/goFlowSquirrel/internal/core"
)

// Pipeline is an immutable composed chain of middleware plus one terminal
// handler. Once built it is read-only and safe to reuse across concurrent
// dispatches; building the same inputs twice yields behaviorally identical
// pipelines.
type Pipeline struct {
	run    flow.Handler
	stages []string
}

// New builds a Pipeline around handler by applying the supplied functional
// [Option] values. The first registered middleware is outermost: it runs
// first on the way in and last on the way out. Stages registered through
// [Use] keep their registration order; the built-in options slot in at fixed
// priority levels (see the Order constants).
//
// Each stage's optional on-build hook runs exactly once during New, before
// the pipeline is returned — this is where build-time deprecation warnings
// are emitted.
//
// New fails with a [flow.ConfigurationError] when handler is nil and no
// middleware was registered, or when an option carries an invalid value.
func New(handler flow.Handler, opts ...Option) (*Pipeline, error) {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	if handler == nil && cfg.mws.Len() == 0 {
		return nil, &flow.ConfigurationError{Reason: "no handler and no middleware given"}
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	if handler == nil {
		// A middleware-only pipeline terminates in a no-op 200 so that
		// short-circuiting stages have something to fall through to.
		handler = func(ctx *flow.Context) error {
			ctx.SetStatus(200)
			return nil
		}
	}

	name := cfg.handlerName
	if name == "" {
		name = "handler"
	}

	stages := cfg.mws.Stages()
	for _, s := range stages {
		if s.OnBuild != nil {
			s.OnBuild()
		}
	}

	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}

	return &Pipeline{
		run:    core.Compose(stages, name, handler),
		stages: names,
	}, nil
}

// Handler returns the fully composed chain. It is what the dispatcher
// executes against a fresh Context.
func (p *Pipeline) Handler() flow.Handler { return p.run }

// Stages returns the middleware stage names in execution order
// (outermost first).
func (p *Pipeline) Stages() []string {
	out := make([]string, len(p.stages))
	copy(out, p.stages)
	return out
}
