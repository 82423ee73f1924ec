package middleware

import (
	"github.com/Keksclan/goFlowSquirrel/deprecate"
	"github.com/Keksclan/goFlowSquirrel/flow"
)

// Deprecated returns a middleware that records a runtime use of feature on
// every dispatch that traverses it. The registry emits at most one warning
// per (feature, registry) pair, even under concurrent dispatches; in
// build-time or silent mode this stage is a passthrough.
func Deprecated(reg *deprecate.Registry, feature string) flow.Middleware {
	return func(next flow.Handler) flow.Handler {
		return func(ctx *flow.Context) error {
			reg.Warn(feature)
			return next(ctx)
		}
	}
}
