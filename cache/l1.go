package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/Keksclan/goFlowSquirrel/flow"
)

// L1 is an in-process response cache backed by ristretto. Responses are
// stored decoded; callers must treat returned responses as read-only.
type L1 struct {
	rc *ristretto.Cache[string, flow.Response]

	mu    sync.Mutex
	loads map[string]*call
}

// call deduplicates concurrent loads for the same key.
type call struct {
	wg   sync.WaitGroup
	resp flow.Response
	err  error
}

// NewL1 creates a new L1 cache. maxCost controls the maximum cost the cache
// can hold (each entry has a cost of 1).
func NewL1(maxCost int64) (*L1, error) {
	rc, err := ristretto.NewCache(&ristretto.Config[string, flow.Response]{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &L1{
		rc:    rc,
		loads: make(map[string]*call),
	}, nil
}

// Get retrieves a cached response by key.
func (l *L1) Get(_ context.Context, key string) (flow.Response, bool, error) {
	v, ok := l.rc.Get(key)
	if !ok {
		return flow.Response{}, false, nil
	}
	return v, true, nil
}

// Set stores a response under key with the given TTL.
func (l *L1) Set(_ context.Context, key string, resp flow.Response, ttl time.Duration) error {
	l.rc.SetWithTTL(key, resp, 1, ttl)
	l.rc.Wait()
	return nil
}

// GetOrSet returns the cached response for key. On a miss it calls loader
// once (deduplicating concurrent callers for the same key), stores the
// result, and returns it.
func (l *L1) GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (flow.Response, error)) (flow.Response, error) {
	if v, ok, _ := l.Get(ctx, key); ok {
		return v, nil
	}

	l.mu.Lock()
	if c, ok := l.loads[key]; ok {
		l.mu.Unlock()
		c.wg.Wait()
		return c.resp, c.err
	}

	c := &call{}
	c.wg.Add(1)
	l.loads[key] = c
	l.mu.Unlock()

	c.resp, c.err = loader(ctx)
	if c.err == nil {
		_ = l.Set(ctx, key, c.resp, ttl)
	}
	c.wg.Done()

	l.mu.Lock()
	delete(l.loads, key)
	l.mu.Unlock()

	return c.resp, c.err
}
