package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Borislavv/go-ash-http-cache/config"
	"github.com/Borislavv/go-ash-http-cache/internal/cache/db"
	dbmodel "github.com/Borislavv/go-ash-http-cache/internal/cache/db/model"
	"github.com/Borislavv/go-ash-http-cache/internal/etag"
	"github.com/Borislavv/go-ash-http-cache/internal/shared/cachedtime"
	"github.com/Borislavv/go-ash-http-cache/model"
)

type Cacher interface {
	Get(key string) (*model.Entry, error)
	GetConditional(key, ifNoneMatch string, ifModifiedSince time.Time) (*model.Response, error)
	Put(key string, data []byte, contentType string) error
	PutWithMetadata(key string, data []byte, meta model.Metadata) error
	Remove(key string) bool
	Clear()
	CleanupExpired() int64
	Stats() model.Stats
	ResetStats()
	Len() int64
	Mem() int64
	Keys() []string
}

// Cache is safe for concurrent use.
//
// A single lock covers the store, the eviction index, the aggregate size and the
// statistics, so every externally observable state satisfies the size and membership
// invariants. Reads take the exclusive lock too since they update eviction metadata.
type Cache struct {
	cfg            *config.Cache
	cacheableTypes []string
	clock          cachedtime.Clock
	logger         *slog.Logger

	mu       sync.RWMutex
	db       *db.Map
	counters counters
}

// New creates a cache whose clock (if cfg.DB.CacheTimeEnabled) lives until ctx is done.
func New(ctx context.Context, cfg *config.Cache, logger *slog.Logger) *Cache {
	return NewWithClock(cfg, cachedtime.ForConfig(ctx, cfg), logger)
}

func NewWithClock(cfg *config.Cache, clock cachedtime.Clock, logger *slog.Logger) *Cache {
	if !cfg.DB.Enabled {
		logger.Warn("[cache] cache is disabled, every put will be rejected")
	}
	return &Cache{
		cfg:            cfg,
		cacheableTypes: normalizeTypes(cfg.Admission.CacheableTypes),
		clock:          clock,
		logger:         logger,
		db:             db.NewMap(cfg.DB.Strategy),
	}
}

// Get returns a copy of a fresh entry.
// A stale entry yields ErrExpired and is left in place.
func (c *Cache) Get(key string) (*model.Entry, error) {
	resp, err := c.lookup(key, "", time.Time{})
	if err != nil {
		return nil, err
	}
	return &resp.Entry, nil
}

// GetConditional behaves like Get and additionally reports whether the request
// validators match the entry. An empty ifNoneMatch or a zero ifModifiedSince means "absent".
func (c *Cache) GetConditional(key, ifNoneMatch string, ifModifiedSince time.Time) (*model.Response, error) {
	return c.lookup(key, ifNoneMatch, ifModifiedSince)
}

// Put stores data with default metadata.
func (c *Cache) Put(key string, data []byte, contentType string) error {
	return c.PutWithMetadata(key, data, model.Metadata{ContentType: contentType})
}

// PutWithMetadata replaces or inserts the entry under key, evicting by the configured
// strategy until it fits. On any error the cache is left unchanged.
func (c *Cache) PutWithMetadata(key string, data []byte, meta model.Metadata) error {
	if err := c.admit(key, data, meta.ContentType); err != nil {
		return err
	}

	if !c.cfg.Validation.LastModifiedEnabled {
		meta.LastModified = time.Time{}
	}
	if meta.ETag == "" && c.cfg.Validation.ETagEnabled {
		meta.ETag = etag.Generate(data, meta.LastModified)
	}
	ttl := meta.TTL
	if ttl <= 0 {
		ttl = c.cfg.DB.DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fitsEmptyStore(int64(len(data))) {
		return fmt.Errorf("%w: %d bytes can not fit into %d bytes / %d entries", ErrFull, len(data), c.cfg.DB.SizeBytes, c.cfg.DB.MaxEntries)
	}

	entry := dbmodel.NewEntry(key, data, meta, ttl, c.clock.Now())
	c.db.Remove(key)
	c.makeRoomUnlocked(entry.Weight())
	c.db.Set(entry)
	c.counters.puts++

	return nil
}

// Remove deletes the key and reports whether it was present.
func (c *Cache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.db.Remove(key)
	return ok
}

// Clear removes every entry. Cumulative counters survive, see ResetStats.
func (c *Cache) Clear() {
	c.mu.Lock()
	freed, items := c.db.Clear()
	c.mu.Unlock()

	if items > 0 {
		c.logger.Debug("[cache] cleared", "items", items, "freedBytes", freed)
	}
}

// CleanupExpired removes every entry whose TTL elapsed and returns how many were removed.
func (c *Cache) CleanupExpired() int64 {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	_, removed := c.db.RemoveExpired(now)
	c.counters.expirations += uint64(removed)
	return removed
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() model.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counters.snapshot(c.db.Mem(), c.db.Len())
}

// ResetStats zeroes cumulative counters. Current size and entries are not affected.
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters.reset()
}

func (c *Cache) Len() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db.Len()
}

func (c *Cache) Mem() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db.Mem()
}

// Keys returns stored keys, the next eviction victim first.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db.Keys()
}

func (c *Cache) Strategy() config.Strategy { return c.db.Strategy() }

// SoftEvictUntilWithinLimit evicts at most backoff entries while usage is over the soft limit.
func (c *Cache) SoftEvictUntilWithinLimit(backoff int64) (freed, evicted int64) {
	if !c.cfg.Eviction.Enabled() {
		return 0, 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	freed, evicted = c.db.EvictUntilWithinLimit(c.cfg.Eviction.SoftMemoryLimitBytes, backoff)
	c.counters.evictions += uint64(evicted)
	return freed, evicted
}

func (c *Cache) SoftMemoryLimitOvercome() bool {
	if !c.cfg.Eviction.Enabled() {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db.Len() > 0 && c.db.Mem() > c.cfg.Eviction.SoftMemoryLimitBytes
}

/**
 * Private API.
 */

// lookup resolves a fresh entry, records the access (hit or miss) and
// copies the entry out while the lock is held.
func (c *Cache) lookup(key, ifNoneMatch string, ifModifiedSince time.Time) (*model.Response, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.db.Get(key)
	if !ok {
		c.counters.misses++
		return nil, ErrMiss
	}
	if entry.IsExpired(now) {
		c.counters.misses++
		return nil, ErrExpired
	}

	c.db.Touch(entry, now)
	c.counters.hits++

	return &model.Response{
		Entry:           *entry.Snapshot(),
		NeedsValidation: entry.MatchesETag(ifNoneMatch) || entry.NotModifiedSince(ifModifiedSince),
	}, nil
}

func (c *Cache) fitsEmptyStore(weight int64) bool {
	return c.cfg.DB.MaxEntries > 0 && weight <= c.cfg.DB.SizeBytes
}

// makeRoomUnlocked evicts victims until one more entry of weight fits.
// Bounded by the number of stored entries.
func (c *Cache) makeRoomUnlocked(weight int64) {
	for c.db.Len() > 0 && (c.db.Len() >= c.cfg.DB.MaxEntries || c.db.Mem()+weight > c.cfg.DB.SizeBytes) {
		victim, ok := c.db.Evict()
		if !ok {
			return
		}
		c.counters.evictions++
		c.logger.Debug("[cache] evicted", "key", victim.Key(), "bytes", victim.Weight(), "strategy", c.db.Strategy())
	}
}
