// Package middleware provides the built-in pipeline stages: panic recovery,
// request IDs, cookie parsing, form-parameter promotion, authentication, IP
// blocking, rate limiting, response caching, circuit breaking, and
// deprecation warnings. Each constructor returns a plain [flow.Middleware],
// so stages can be registered directly or through the root package's
// convenience options.
package middleware
