package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Keksclan/goFlowSquirrel/flow"
)

// Tiered combines an L1 (in-process) and L2 (Redis) cache. Reads check L1
// first, then L2, then the loader. Writes populate both layers.
type Tiered struct {
	l1 *L1
	l2 *L2

	mu    sync.Mutex
	loads map[string]*call
}

// NewTiered creates a two-level response cache.
func NewTiered(l1 *L1, l2 *L2) *Tiered {
	return &Tiered{
		l1:    l1,
		l2:    l2,
		loads: make(map[string]*call),
	}
}

// Get checks L1, then L2. On an L2 hit the response is promoted into L1
// (with zero TTL since the original TTL is unknown).
func (t *Tiered) Get(ctx context.Context, key string) (flow.Response, bool, error) {
	if v, ok, err := t.l1.Get(ctx, key); err != nil || ok {
		return v, ok, err
	}
	v, ok, err := t.l2.Get(ctx, key)
	if err != nil || !ok {
		return flow.Response{}, false, err
	}
	_ = t.l1.Set(ctx, key, v, 0)
	return v, true, nil
}

// Set writes the response to both L2 and L1.
func (t *Tiered) Set(ctx context.Context, key string, resp flow.Response, ttl time.Duration) error {
	_ = t.l2.Set(ctx, key, resp, ttl)
	return t.l1.Set(ctx, key, resp, ttl)
}

// GetOrSet follows the L1 → L2 → loader pattern, deduplicating concurrent
// loads for the same key.
func (t *Tiered) GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (flow.Response, error)) (flow.Response, error) {
	if v, ok, _ := t.l1.Get(ctx, key); ok {
		return v, nil
	}

	if v, ok, _ := t.l2.Get(ctx, key); ok {
		_ = t.l1.Set(ctx, key, v, ttl)
		return v, nil
	}

	t.mu.Lock()
	if c, ok := t.loads[key]; ok {
		t.mu.Unlock()
		c.wg.Wait()
		return c.resp, c.err
	}

	c := &call{}
	c.wg.Add(1)
	t.loads[key] = c
	t.mu.Unlock()

	c.resp, c.err = loader(ctx)
	if c.err == nil {
		_ = t.l2.Set(ctx, key, c.resp, ttl)
		_ = t.l1.Set(ctx, key, c.resp, ttl)
	}
	c.wg.Done()

	t.mu.Lock()
	delete(t.loads, key)
	t.mu.Unlock()

	return c.resp, c.err
}
