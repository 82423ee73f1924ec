package middleware

import (
	"github.com/google/uuid"

	"github.com/Keksclan/goFlowSquirrel/flow"
)

// RequestIDAttr is the context attribute under which the request ID is stored.
const RequestIDAttr = "request_id"

// RequestID returns a middleware that assigns each dispatch a unique request
// ID, stored as a context attribute and echoed on the X-Request-Id response
// header. A string ID already present (from a re-applied stage) is kept, so
// the transformation is idempotent; anything else under the attribute is
// replaced with a fresh ID.
func RequestID() flow.Middleware {
	return func(next flow.Handler) flow.Handler {
		return func(ctx *flow.Context) error {
			v, _ := ctx.Attr(RequestIDAttr)
			id, ok := v.(string)
			if !ok {
				id = uuid.New().String()
				ctx.SetAttr(RequestIDAttr, id)
			}
			ctx.SetHeader("X-Request-Id", id)
			return next(ctx)
		}
	}
}
