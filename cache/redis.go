package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Keksclan/goFlowSquirrel/flow"
)

// L2 is a Redis-backed response cache layer. Entries are JSON-encoded on the
// wire. All operations fail soft: if Redis is unavailable, methods return a
// miss (or silently discard the write) instead of surfacing the error to the
// request path.
type L2 struct {
	rdb *redis.Client
}

// NewL2 creates a new Redis-backed L2 cache.
func NewL2(addr, password string, db int) *L2 {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &L2{rdb: rdb}
}

// Get retrieves a response by key. Returns a miss when the key is absent,
// when Redis is unreachable, or when a stored entry fails to decode.
func (l *L2) Get(ctx context.Context, key string) (flow.Response, bool, error) {
	raw, err := l.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return flow.Response{}, false, nil
		}
		// Fail soft: treat connection errors as a miss.
		return flow.Response{}, false, nil
	}
	var resp flow.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return flow.Response{}, false, nil
	}
	return resp, true, nil
}

// Set stores a response under key with the given TTL. A zero TTL means the
// entry has no automatic expiration. Errors are silently discarded (fail
// soft).
func (l *L2) Set(ctx context.Context, key string, resp flow.Response, ttl time.Duration) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return nil
	}
	_ = l.rdb.Set(ctx, key, raw, ttl).Err()
	return nil
}

// GetOrSet returns the cached response for key, calling loader and storing
// its result on a miss. L2 performs no load deduplication of its own; wrap
// it in [Tiered] when singleflight semantics are needed.
func (l *L2) GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (flow.Response, error)) (flow.Response, error) {
	if v, ok, _ := l.Get(ctx, key); ok {
		return v, nil
	}
	resp, err := loader(ctx)
	if err != nil {
		return flow.Response{}, err
	}
	_ = l.Set(ctx, key, resp, ttl)
	return resp, nil
}

// Ping checks the Redis connection.
func (l *L2) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (l *L2) Close() error {
	return l.rdb.Close()
}
