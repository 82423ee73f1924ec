package middleware

import (
	"github.com/Keksclan/goFlowSquirrel/flow"
	"github.com/Keksclan/goFlowSquirrel/security"
)

// IPBlock returns a middleware that evaluates the client address of each
// dispatch against the blocker. Denied requests are short-circuited with
// status 403.
func IPBlock(b *security.IPBlocker) flow.Middleware {
	return func(next flow.Handler) flow.Handler {
		return func(ctx *flow.Context) error {
			if !b.Evaluate(ctx.RemoteAddr(), ctx.HeaderMap()) {
				ctx.SetStatus(403)
				ctx.SetBody([]byte("forbidden"))
				return nil
			}
			return next(ctx)
		}
	}
}
