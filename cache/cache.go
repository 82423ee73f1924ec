// Package cache provides a pluggable response cache with an in-process L1
// implementation backed by ristretto and a Redis-backed L2. It stores whole
// pipeline responses keyed by request identity, so a cache middleware can
// answer repeat safe requests without running the handler.
package cache

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Keksclan/goFlowSquirrel/flow"
)

// Cache is the public response-caching contract exposed to the cache stage.
type Cache interface {
	// Get retrieves a cached response by key. The boolean indicates a hit.
	Get(ctx context.Context, key string) (flow.Response, bool, error)

	// Set stores a response under key with the given TTL. A zero TTL means
	// the entry has no automatic expiration.
	Set(ctx context.Context, key string, resp flow.Response, ttl time.Duration) error

	// GetOrSet returns the cached response for key. On a cache miss it calls
	// loader exactly once, stores the result, and returns it.
	GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (flow.Response, error)) (flow.Response, error)
}

// Key derives a stable cache key from the identity of a request: method,
// path, and the parameter mapping in sorted-key order.
func Key(method, path string, params map[string]string) string {
	var b strings.Builder
	b.WriteString(method)
	b.WriteByte(' ')
	b.WriteString(path)
	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteByte('?')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(params[k])
		}
	}
	return b.String()
}
