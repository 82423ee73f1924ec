package middleware

import (
	"github.com/Keksclan/goFlowSquirrel/flow"
)

// PrincipalAttr is the context attribute under which the authenticated
// principal is stored.
const PrincipalAttr = "principal"

// AuthFunc is a user-supplied callback that authenticates a request from its
// inbound context. On success it returns the principal to store as a context
// attribute; on failure it returns an error.
//
// The library does NOT parse tokens — that is the responsibility of the
// AuthFunc implementation.
type AuthFunc func(ctx *flow.Context) (principal any, err error)

// Auth returns a middleware that authenticates each dispatch with fn.
// Rejected requests are short-circuited with status 401; the handler and all
// deeper stages never run.
func Auth(fn AuthFunc) flow.Middleware {
	return func(next flow.Handler) flow.Handler {
		return func(ctx *flow.Context) error {
			principal, err := fn(ctx)
			if err != nil {
				ctx.SetStatus(401)
				ctx.SetBody([]byte("unauthorized"))
				return nil
			}
			ctx.SetAttr(PrincipalAttr, principal)
			return next(ctx)
		}
	}
}
