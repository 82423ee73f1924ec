package middleware

import (
	"github.com/Keksclan/goFlowSquirrel/flow"
	"github.com/Keksclan/goFlowSquirrel/policy"
	"github.com/Keksclan/goFlowSquirrel/ratelimit"
)

// rateLimitState holds the global limiter, an optional policy resolver, and
// the per-group limiters created lazily from resolved policies.
type rateLimitState struct {
	global   *ratelimit.Limiter
	resolver *policy.Resolver
	groups   *ratelimit.Keyed
}

// limiterFor returns the per-group limiter when the resolver matches path to
// a group with a RateLimit policy. Otherwise it returns the global limiter.
func (s *rateLimitState) limiterFor(path string) *ratelimit.Limiter {
	if s.resolver != nil {
		if name, pol, ok := s.resolver.Resolve(path); ok && pol != nil && pol.RateLimit != nil {
			rl := pol.RateLimit
			return s.groups.Get(name, float64(rl.Rate)/rl.Window.Seconds(), rl.Rate)
		}
	}
	return s.global
}

// RateLimit returns a middleware that rejects dispatches with status 429 when
// the applicable limiter has been exhausted. When a policy resolver is given
// and the request path matches a group with a RateLimit rule, that per-group
// limiter is used; otherwise the global limiter applies.
func RateLimit(global *ratelimit.Limiter, resolver *policy.Resolver) flow.Middleware {
	st := &rateLimitState{global: global, resolver: resolver, groups: ratelimit.NewKeyed()}
	return func(next flow.Handler) flow.Handler {
		return func(ctx *flow.Context) error {
			if !st.limiterFor(ctx.Path()).Allow() {
				ctx.SetStatus(429)
				ctx.SetBody([]byte("rate limit exceeded"))
				return nil
			}
			return next(ctx)
		}
	}
}
