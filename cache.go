// Package ashcache is an in-process HTTP-aware object cache: a bounded store of
// byte payloads keyed by strings, with LRU/LFU/FIFO eviction, TTL freshness and
// ETag / Last-Modified conditional validation.
package ashcache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Borislavv/go-ash-http-cache/config"
	"github.com/Borislavv/go-ash-http-cache/internal/cache"
	"github.com/Borislavv/go-ash-http-cache/internal/etag"
	"github.com/Borislavv/go-ash-http-cache/internal/evictor"
	"github.com/Borislavv/go-ash-http-cache/internal/lifetimer"
	"github.com/Borislavv/go-ash-http-cache/internal/metrics"
	"github.com/Borislavv/go-ash-http-cache/internal/telemetry"
	"github.com/Borislavv/go-ash-http-cache/model"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrMiss          = cache.ErrMiss
	ErrExpired       = cache.ErrExpired
	ErrFull          = cache.ErrFull
	ErrInvalidKey    = cache.ErrInvalidKey
	ErrInvalidConfig = cache.ErrInvalidConfig
)

type (
	Entry    = model.Entry
	Response = model.Response
	Metadata = model.Metadata
	Stats    = model.Stats
)

type AshCache interface {
	cache.Cacher
	ID() string
	Collector() prometheus.Collector
	ForceEviction(timeout time.Duration) error
	ForceSweep(timeout time.Duration) error
	Close() error
}

// Cache composes the core cache with its background workers.
// Workers live until Close or until the constructor context is done.
type Cache struct {
	cache.Cacher
	id        string
	evictor   evictor.Evictor
	lifetimer lifetimer.Lifetimer
	telemetry telemetry.Logger
	collector *metrics.Collector
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func New(ctx context.Context, cfg *config.Cache, logger *slog.Logger) *Cache {
	id := uuid.NewString()
	logger = logger.With("cache_id", id)

	ctx, cancel := context.WithCancel(ctx)
	cacher := cache.New(ctx, cfg, logger)
	eviction := evictor.New(ctx, cfg.Eviction, logger, cacher)
	lifetime := lifetimer.New(ctx, cfg.Lifetime, logger, cacher)
	telemeter := telemetry.New(ctx, cfg, logger, cacher, eviction, lifetime)

	logger.Info("cache is running",
		"strategy", cacher.Strategy().String(),
		"max_size", cfg.DB.SizeBytes,
		"max_entries", cfg.DB.MaxEntries,
		"default_ttl", cfg.DB.DefaultTTL.String(),
	)

	return &Cache{
		Cacher:    cacher,
		id:        id,
		evictor:   eviction,
		lifetimer: lifetime,
		telemetry: telemeter,
		collector: metrics.NewCollector(id, cacher),
		cancel:    cancel,
	}
}

// NewDefault creates a cache with config.Default.
func NewDefault(ctx context.Context, logger *slog.Logger) *Cache {
	return New(ctx, config.Default(), logger)
}

// ID is a random identifier of this instance, attached to its logs and metrics.
func (c *Cache) ID() string { return c.id }

// Collector exports the cache statistics, register it into a prometheus.Registerer.
func (c *Cache) Collector() prometheus.Collector { return c.collector }

// ForceEviction runs one soft eviction call out of schedule. No-op when eviction is disabled.
func (c *Cache) ForceEviction(timeout time.Duration) error { return c.evictor.ForceCall(timeout) }

// ForceSweep removes expired entries in background out of schedule. No-op when the sweeper is disabled.
func (c *Cache) ForceSweep(timeout time.Duration) error { return c.lifetimer.ForceSweep(timeout) }

func (c *Cache) EvictorMetrics() (scans, hits, evictedItems, evictedBytes int64) {
	return c.evictor.Metrics()
}

func (c *Cache) LifetimerMetrics() (removed, scans, hits, misses int64) {
	return c.lifetimer.Metrics()
}

// Close stops background workers. Stored entries stay readable. Idempotent.
func (c *Cache) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.evictor.Close()
		_ = c.lifetimer.Close()
		_ = c.telemetry.Close()
	})
	return nil
}

// GenerateETag returns a quoted token derived from content and, if not zero,
// lastModified at second resolution.
func GenerateETag(content []byte, lastModified time.Time) string {
	return etag.Generate(content, lastModified)
}
