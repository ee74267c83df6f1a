// Package cache memoises palettes by object identity.
//
// Entries are keyed by object name, sprite digest and extractor fingerprint,
// so a changed sprite or a changed extractor setting never serves a stale
// palette. A nil palette (the object has no visible pixels) is cached like
// any other result.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/singleflight"

	"github.com/jmylchreest/colourpeek/internal/colour"
	"github.com/jmylchreest/colourpeek/internal/store"
)

// DefaultSize is the number of palettes held in memory when no size is set.
const DefaultSize = 1024

// Key identifies one extraction result.
type Key struct {
	Object      string
	Digest      string
	Fingerprint string
}

// String returns the persistent form of the key.
func (k Key) String() string {
	return k.Object + "@" + k.Digest + "/" + k.Fingerprint
}

// Store is the persistent layer behind the in-memory cache.
type Store interface {
	Get(ctx context.Context, key string) (*store.Record, error)
	Put(ctx context.Context, rec store.Record) error
	Delete(ctx context.Context, object string) (int64, error)
	Clear(ctx context.Context) (int64, error)
}

// ComputeFunc produces the palette for a key on a cache miss.
type ComputeFunc func(ctx context.Context) (*colour.Palette, error)

// Stats counts cache outcomes.
type Stats struct {
	Hits      int64
	StoreHits int64
	Misses    int64
	Evictions int64
	InMemory  int
}

// Cache is safe for concurrent use. Each key is computed at most once at a
// time; concurrent callers for the same key share the result.
type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache
	byObj   map[string]map[Key]struct{}
	stats   Stats

	group  singleflight.Group
	store  Store
	logger hclog.Logger
}

// New creates a cache holding up to size palettes in memory. st may be nil.
func New(size int, st Store, logger hclog.Logger) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	c := &Cache{
		entries: lru.New(size),
		byObj:   make(map[string]map[Key]struct{}),
		store:   st,
		logger:  logger.Named("cache"),
	}
	c.entries.OnEvicted = c.evicted
	return c
}

// GetOrCompute returns the cached palette for key, computing and storing it
// with fn on a miss. Errors from fn are returned and never cached.
func (c *Cache) GetOrCompute(ctx context.Context, key Key, fn ComputeFunc) (*colour.Palette, error) {
	if p, ok := c.lookup(key); ok {
		return p, nil
	}

	v, err, shared := c.group.Do(key.String(), func() (any, error) {
		if p, ok := c.lookup(key); ok {
			return p, nil
		}

		if p, ok := c.fromStore(ctx, key); ok {
			c.add(key, p)
			return p, nil
		}

		c.mu.Lock()
		c.stats.Misses++
		c.mu.Unlock()

		p, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.add(key, p)
		c.persist(ctx, key, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Trace("shared in-flight computation", "key", key.String())
	}

	p, _ := v.(*colour.Palette)
	return p, nil
}

// Invalidate drops every palette of object from memory and the store.
func (c *Cache) Invalidate(ctx context.Context, object string) error {
	c.mu.Lock()
	for key := range c.byObj[object] {
		c.entries.Remove(key)
	}
	delete(c.byObj, object)
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	n, err := c.store.Delete(ctx, object)
	if err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", object, err)
	}
	c.logger.Debug("invalidated object", "object", object, "stored", n)
	return nil
}

// Purge drops every palette from memory and the store, returning the number
// of stored records removed.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	c.mu.Lock()
	c.entries.Clear()
	c.byObj = make(map[string]map[Key]struct{})
	c.mu.Unlock()

	if c.store == nil {
		return 0, nil
	}
	n, err := c.store.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge store: %w", err)
	}
	return n, nil
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.InMemory = c.entries.Len()
	return s
}

func (c *Cache) lookup(key Key) (*colour.Palette, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	c.stats.Hits++
	p, _ := v.(*colour.Palette)
	return p, true
}

func (c *Cache) add(key Key, p *colour.Palette) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(key, p)
	keys, ok := c.byObj[key.Object]
	if !ok {
		keys = make(map[Key]struct{})
		c.byObj[key.Object] = keys
	}
	keys[key] = struct{}{}
}

// evicted runs under c.mu, from within lru calls.
func (c *Cache) evicted(k lru.Key, _ any) {
	key, ok := k.(Key)
	if !ok {
		return
	}
	c.stats.Evictions++
	if keys, ok := c.byObj[key.Object]; ok {
		delete(keys, key)
		if len(keys) == 0 {
			delete(c.byObj, key.Object)
		}
	}
}

func (c *Cache) fromStore(ctx context.Context, key Key) (*colour.Palette, bool) {
	if c.store == nil {
		return nil, false
	}

	rec, err := c.store.Get(ctx, key.String())
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.logger.Warn("store lookup failed", "key", key.String(), "error", err)
		}
		return nil, false
	}

	c.mu.Lock()
	c.stats.StoreHits++
	c.mu.Unlock()
	return rec.Palette, true
}

func (c *Cache) persist(ctx context.Context, key Key, p *colour.Palette) {
	if c.store == nil {
		return
	}
	rec := store.Record{Key: key.String(), Object: key.Object, Digest: key.Digest, Palette: p}
	if err := c.store.Put(ctx, rec); err != nil {
		c.logger.Warn("failed to persist palette", "key", key.String(), "error", err)
	}
}
