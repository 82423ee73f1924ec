package middleware

import (
	"github.com/Keksclan/goFlowSquirrel/breaker"
	"github.com/Keksclan/goFlowSquirrel/flow"
)

// Breaker returns a circuit-breaking middleware. While the breaker is open,
// dispatches are short-circuited with status 503. Outcomes of dispatches that
// do run are fed back into the breaker: a stage error or a 5xx status counts
// as a failure, everything else as a success.
func Breaker(b *breaker.Breaker) flow.Middleware {
	return func(next flow.Handler) flow.Handler {
		return func(ctx *flow.Context) error {
			if !b.Allow() {
				ctx.SetStatus(503)
				ctx.SetBody([]byte("service unavailable"))
				return nil
			}

			err := next(ctx)
			if err != nil || ctx.Status() >= 500 {
				b.OnFailure()
			} else {
				b.OnSuccess()
			}
			return err
		}
	}
}
