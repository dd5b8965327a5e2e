// Package query caches fetched API payloads by key with per-entry expiry and
// collapses concurrent fetches of the same key into one request.
package query

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/optionslab/optionslab-client/internal/metrics"
)

type entry struct {
	value     any
	expiresAt time.Time // zero means no expiry
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	gens    map[string]uint64 // bumped on invalidation; guards in-flight loads
	group   singleflight.Group

	Now func() time.Time
}

func New() *Cache {
	return &Cache{entries: make(map[string]entry), gens: make(map[string]uint64), Now: time.Now}
}

func (c *Cache) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Cache) get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// generation returns the current generation of key, registering the key so a
// later Invalidate sees it even before any value is stored.
func (c *Cache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens == nil {
		c.gens = make(map[string]uint64)
	}
	gen, ok := c.gens[key]
	if !ok {
		c.gens[key] = 0
	}
	return gen
}

// set stores v unless key was invalidated after the load began.
func (c *Cache) set(key string, gen uint64, v any, ttl time.Duration) bool {
	e := entry{value: v}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return false
	}
	c.entries[key] = e
	return true
}

// Invalidate drops every entry whose key starts with prefix and discards
// loads for those keys that are still in flight.
func (c *Cache) Invalidate(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.gens {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		c.gens[k]++
		if _, ok := c.entries[k]; ok {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func (c *Cache) Clear() {
	c.mu.Lock()
	for k := range c.gens {
		c.gens[k]++
	}
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fetch returns the cached value for key or calls load and stores its result
// for ttl. A zero ttl keeps the value until invalidated. Errors are not cached.
//
// Concurrent callers share one load. The load runs detached from any single
// caller's cancellation, and each caller stops waiting when its own ctx ends.
// A load that began before an Invalidate of its key is neither stored nor
// joined by later callers.
func Fetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.get(key); ok {
		if typed, ok := v.(T); ok {
			metrics.ObserveCacheLookup(true)
			return typed, nil
		}
	}
	metrics.ObserveCacheLookup(false)

	gen := c.generation(key)
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		res, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.set(key, gen, res, ttl)
		return res, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		return r.Val.(T), nil
	}
}
