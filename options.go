package goflowsquirrel

import (
	"time"

	"github.com/Keksclan/goFlowSquirrel/breaker"
	"github.com/Keksclan/goFlowSquirrel/cache"
	"github.com/Keksclan/goFlowSquirrel/deprecate"
	"github.com/Keksclan/goFlowSquirrel/flow"
	"github.com/Keksclan/goFlowSquirrel/internal/core"
	"github.com/Keksclan/goFlowSquirrel/middleware"
	"github.com/Keksclan/goFlowSquirrel/policy"
	"github.com/Keksclan/goFlowSquirrel/ratelimit"
	"github.com/Keksclan/goFlowSquirrel/security"
	"github.com/Keksclan/goFlowSquirrel/tracing"
)

// Option configures a Pipeline under construction.
type Option func(*config)

// Use registers a named middleware stage. Stages registered this way execute
// in registration order, after all built-in stages. The name appears in error
// attribution and execution traces.
func Use(name string, mw flow.Middleware) Option {
	return func(c *config) {
		if name == "" {
			c.fail(&flow.ConfigurationError{Option: "use", Reason: "middleware name must not be empty"})
			return
		}
		if mw == nil {
			c.fail(&flow.ConfigurationError{Option: "use", Reason: "middleware " + name + " is nil"})
			return
		}
		c.mws.Add(OrderUser, core.Stage{Name: name, MW: mw})
	}
}

// WithHandlerName overrides the stage name used when attributing terminal
// handler failures. The default is "handler".
func WithHandlerName(name string) Option {
	return func(c *config) { c.handlerName = name }
}

// WithRecovery installs the outermost panic-recovery stage so that a panic
// inside any deeper stage fails the dispatch instead of crashing the process.
func WithRecovery() Option {
	return func(c *config) {
		c.mws.Add(OrderRecovery, core.Stage{Name: "recovery", MW: middleware.Recovery()})
	}
}

// WithTracing installs an OpenTelemetry tracing stage that opens a span per
// dispatch and propagates trace context from the inbound headers.
func WithTracing(cfg *tracing.Config) Option {
	return func(c *config) {
		c.mws.Add(OrderTracing, core.Stage{Name: "tracing", MW: tracing.Middleware(cfg)})
	}
}

// WithRequestID installs a stage that assigns every dispatch a unique request
// ID, stored as a context attribute and echoed on the response.
func WithRequestID() Option {
	return func(c *config) {
		c.mws.Add(OrderRequestID, core.Stage{Name: "requestid", MW: middleware.RequestID()})
	}
}

// WithIPBlock installs a stage that rejects requests whose client address is
// not permitted by the blocker.
func WithIPBlock(b *security.IPBlocker) Option {
	return func(c *config) {
		if b == nil {
			c.fail(&flow.ConfigurationError{Option: "ipblock", Reason: "nil IPBlocker"})
			return
		}
		c.mws.Add(OrderIPBlock, core.Stage{Name: "ipblock", MW: middleware.IPBlock(b)})
	}
}

// WithAuth installs an authentication stage backed by fn. Requests fn rejects
// are short-circuited with status 401.
func WithAuth(fn middleware.AuthFunc) Option {
	return func(c *config) {
		if fn == nil {
			c.fail(&flow.ConfigurationError{Option: "auth", Reason: "nil AuthFunc"})
			return
		}
		c.mws.Add(OrderAuth, core.Stage{Name: "auth", MW: middleware.Auth(fn)})
	}
}

// WithRateLimit installs a rate-limiting stage. The global limiter applies to
// every request unless resolver matches the request path to a group carrying
// its own rate-limit rule. resolver may be nil.
func WithRateLimit(global *ratelimit.Limiter, resolver *policy.Resolver) Option {
	return func(c *config) {
		if global == nil {
			c.fail(&flow.ConfigurationError{Option: "ratelimit", Reason: "nil global limiter"})
			return
		}
		c.mws.Add(OrderRateLimit, core.Stage{Name: "ratelimit", MW: middleware.RateLimit(global, resolver)})
	}
}

// WithBreaker installs a circuit-breaking stage: while the breaker is open,
// requests are short-circuited with status 503.
func WithBreaker(b *breaker.Breaker) Option {
	return func(c *config) {
		if b == nil {
			c.fail(&flow.ConfigurationError{Option: "breaker", Reason: "nil Breaker"})
			return
		}
		c.mws.Add(OrderBreaker, core.Stage{Name: "breaker", MW: middleware.Breaker(b)})
	}
}

// WithCookies installs the cookie stage, which parses the inbound Cookie
// header into the context's cookie mapping. Parsing is idempotent: applying
// the stage twice to the same header yields the same mapping.
func WithCookies() Option {
	return func(c *config) {
		c.mws.Add(OrderCookies, core.Stage{Name: "cookies", MW: middleware.Cookies()})
	}
}

// WithFormParams installs a stage that merges form-encoded body parameters
// into the request parameter mapping (existing keys win).
func WithFormParams() Option {
	return func(c *config) {
		c.mws.Add(OrderParams, core.Stage{Name: "params", MW: middleware.FormParams()})
	}
}

// WithCache installs a response-caching stage for safe (GET) requests.
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *config) {
		if store == nil {
			c.fail(&flow.ConfigurationError{Option: "cache", Reason: "nil cache"})
			return
		}
		if ttl < 0 {
			c.fail(&flow.ConfigurationError{Option: "cache", Reason: "negative TTL"})
			return
		}
		c.mws.Add(OrderCache, core.Stage{Name: "cache", MW: middleware.Cache(store, ttl)})
	}
}

// WithDeprecation marks the pipeline's use of feature as deprecated. In
// runtime mode the registry warns at most once per feature when a dispatch
// first traverses the stage; in build-time mode the warning is emitted
// immediately while New composes the pipeline; in silent mode nothing is
// emitted. The two warning modes are mutually exclusive by construction —
// the registry's mode decides which path fires.
func WithDeprecation(reg *deprecate.Registry, feature string) Option {
	return func(c *config) {
		if reg == nil {
			c.fail(&flow.ConfigurationError{Option: "deprecation", Reason: "nil registry"})
			return
		}
		c.mws.Add(OrderUser, core.Stage{
			Name:    "deprecate:" + feature,
			MW:      middleware.Deprecated(reg, feature),
			OnBuild: func() { reg.WarnAtBuild(feature) },
		})
	}
}
