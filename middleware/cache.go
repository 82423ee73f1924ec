package middleware

import (
	"context"
	"time"

	"github.com/Keksclan/goFlowSquirrel/cache"
	"github.com/Keksclan/goFlowSquirrel/flow"
)

// Cache returns a middleware that serves repeat GET requests from the store.
// On a miss the rest of the chain runs once (concurrent misses for the same
// key are deduplicated by the store) and a 200 response is cached for ttl.
// Non-GET requests and non-200 responses bypass the cache.
func Cache(store cache.Cache, ttl time.Duration) flow.Middleware {
	return func(next flow.Handler) flow.Handler {
		return func(ctx *flow.Context) error {
			if ctx.Method() != "GET" {
				return next(ctx)
			}

			key := cache.Key(ctx.Method(), ctx.Path(), ctx.ParamMap())

			if resp, ok, _ := store.Get(context.Background(), key); ok {
				applyResponse(ctx, resp)
				return nil
			}

			if err := next(ctx); err != nil {
				return err
			}

			if resp := ctx.Response(); resp.Status == 200 {
				_ = store.Set(context.Background(), key, resp, ttl)
			}
			return nil
		}
	}
}

// applyResponse copies a cached response into the dispatch's own context.
func applyResponse(ctx *flow.Context, resp flow.Response) {
	ctx.SetStatus(resp.Status)
	for name, v := range resp.Header {
		ctx.SetHeader(name, v)
	}
	ctx.SetBody(resp.Body)
	for name, ck := range resp.Cookies {
		ctx.SetCookie(name, ck)
	}
}
