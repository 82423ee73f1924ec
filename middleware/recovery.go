package middleware

import (
	"fmt"

	"github.com/Keksclan/goFlowSquirrel/flow"
)

// Recovery returns a middleware that recovers from panics in deeper stages
// and converts them into stage failures instead of crashing the process.
// The failed dispatch reports status 500.
func Recovery() flow.Middleware {
	return func(next flow.Handler) flow.Handler {
		return func(ctx *flow.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					ctx.SetStatus(500)
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return next(ctx)
		}
	}
}
