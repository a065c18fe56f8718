// Package ffi exposes caches to a host process through integer handles.
//
// There is no implicit instance: the host creates caches and destroys them.
// Every response, statistics buffer and string handed out is owned by the host
// until it is released by the matching Free call; the registry never reclaims
// it on its own, Outstanding reports what is still held.
package ffi

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	ashcache "github.com/Borislavv/go-ash-http-cache"
	"github.com/Borislavv/go-ash-http-cache/config"
	"github.com/Borislavv/go-ash-http-cache/model"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/sjson"
)

// Handle identifies an object owned by the host. Zero is never a valid handle.
type Handle uint64

// Response is a host owned copy of a cached entry.
// Timestamps are Unix seconds, 0 means absent.
type Response struct {
	Data            []byte
	ContentType     string
	ETag            string
	LastModified    uint64
	IsCompressed    bool
	NeedsValidation bool
}

type Registry struct {
	ctx    context.Context
	logger *slog.Logger

	mu        sync.Mutex
	last      Handle
	caches    map[Handle]*ashcache.Cache
	responses map[Handle]*Response
	stats     map[Handle][]byte
	strings   map[Handle]string
}

// NewRegistry creates an empty registry. Caches created through it live until
// Destroy, Close or until ctx is done and log through logger.
func NewRegistry(ctx context.Context, logger *slog.Logger) *Registry {
	return &Registry{
		ctx:       ctx,
		logger:    logger,
		caches:    make(map[Handle]*ashcache.Cache),
		responses: make(map[Handle]*Response),
		stats:     make(map[Handle][]byte),
		strings:   make(map[Handle]string),
	}
}

// New creates a cache with the default policy.
func (r *Registry) New() Handle {
	return r.create(config.Default())
}

// NewWithPolicy creates a cache from the boundary tuple.
// Unknown strategy ids (0 LRU, 1 LFU, 2 FIFO) fall back to LRU.
func (r *Registry) NewWithPolicy(maxSize, maxEntries, defaultTTLSecs uint64, strategyID int) Handle {
	return r.create(config.WithPolicy(clampInt64(maxSize), clampInt64(maxEntries), defaultTTLSecs, strategyID))
}

// Destroy stops and releases a cache. Outputs already handed out stay valid.
func (r *Registry) Destroy(h Handle) Status {
	r.mu.Lock()
	c, ok := r.caches[h]
	delete(r.caches, h)
	r.mu.Unlock()

	if !ok {
		return StatusInvalidHandle
	}
	_ = c.Close()
	log.Info().Uint64("handle", uint64(h)).Str("cache_id", c.ID()).Msg("[ffi] cache destroyed")
	return StatusOK
}

// Get returns a response handle of a fresh entry.
func (r *Registry) Get(h Handle, key string) (Handle, Status) {
	return r.GetConditional(h, key, "", 0)
}

// GetConditional returns a response handle whose NeedsValidation reports whether
// ifNoneMatch or ifModifiedSince (Unix seconds, 0 absent) match the entry.
func (r *Registry) GetConditional(h Handle, key, ifNoneMatch string, ifModifiedSince uint64) (Handle, Status) {
	c, ok := r.cache(h)
	if !ok {
		return 0, StatusInvalidHandle
	}

	resp, err := c.GetConditional(key, ifNoneMatch, fromUnix(ifModifiedSince))
	if err != nil {
		return 0, statusOf(err)
	}

	out := &Response{
		Data:            resp.Data,
		ContentType:     resp.ContentType,
		ETag:            resp.ETag,
		LastModified:    toUnix(resp.LastModified),
		IsCompressed:    resp.IsCompressed,
		NeedsValidation: resp.NeedsValidation,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	rh := r.nextUnlocked()
	r.responses[rh] = out
	return rh, StatusOK
}

// Response reads a response handle. The returned value stays valid until FreeResponse.
func (r *Registry) Response(rh Handle) (*Response, Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp, ok := r.responses[rh]
	if !ok {
		return nil, StatusInvalidHandle
	}
	return resp, StatusOK
}

func (r *Registry) FreeResponse(rh Handle) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.responses[rh]; !ok {
		return StatusInvalidHandle
	}
	delete(r.responses, rh)
	return StatusOK
}

// Put stores data with an optional content type (empty means absent).
func (r *Registry) Put(h Handle, key string, data []byte, contentType string) Status {
	c, ok := r.cache(h)
	if !ok {
		return StatusInvalidHandle
	}
	return statusOf(c.Put(key, data, contentType))
}

// PutWithMetadata stores data with validators. Empty strings and zero numbers mean absent;
// an absent ttl means the default TTL of the cache.
func (r *Registry) PutWithMetadata(h Handle, key string, data []byte, contentType, etag string, lastModified, ttlSecs uint64, isCompressed bool) Status {
	c, ok := r.cache(h)
	if !ok {
		return StatusInvalidHandle
	}
	return statusOf(c.PutWithMetadata(key, data, model.Metadata{
		ContentType:  contentType,
		ETag:         etag,
		LastModified: fromUnix(lastModified),
		TTL:          time.Duration(min(ttlSecs, uint64(math.MaxInt64/int64(time.Second)))) * time.Second,
		IsCompressed: isCompressed,
	}))
}

// Remove returns StatusMiss if the key was not stored.
func (r *Registry) Remove(h Handle, key string) Status {
	c, ok := r.cache(h)
	if !ok {
		return StatusInvalidHandle
	}
	if key == "" {
		return StatusInvalidKey
	}
	if !c.Remove(key) {
		return StatusMiss
	}
	return StatusOK
}

func (r *Registry) Clear(h Handle) Status {
	c, ok := r.cache(h)
	if !ok {
		return StatusInvalidHandle
	}
	c.Clear()
	return StatusOK
}

// ResetStats zeroes cumulative counters of a cache.
func (r *Registry) ResetStats(h Handle) Status {
	c, ok := r.cache(h)
	if !ok {
		return StatusInvalidHandle
	}
	c.ResetStats()
	return StatusOK
}

// CleanupExpired removes expired entries and reports how many were removed.
func (r *Registry) CleanupExpired(h Handle) (int64, Status) {
	c, ok := r.cache(h)
	if !ok {
		return 0, StatusInvalidHandle
	}
	return c.CleanupExpired(), StatusOK
}

// Stats returns a handle of a JSON serialized statistics snapshot.
func (r *Registry) Stats(h Handle) (Handle, Status) {
	c, ok := r.cache(h)
	if !ok {
		return 0, StatusInvalidHandle
	}

	buf, err := marshalStats(c.Stats())
	if err != nil {
		log.Error().Err(err).Uint64("handle", uint64(h)).Msg("[ffi] failed to serialize stats")
		return 0, StatusInvalidConfig
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	sh := r.nextUnlocked()
	r.stats[sh] = buf
	return sh, StatusOK
}

// StatsBytes reads a statistics handle. The buffer stays valid until FreeStats.
func (r *Registry) StatsBytes(sh Handle) ([]byte, Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	buf, ok := r.stats[sh]
	if !ok {
		return nil, StatusInvalidHandle
	}
	return buf, StatusOK
}

func (r *Registry) FreeStats(sh Handle) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stats[sh]; !ok {
		return StatusInvalidHandle
	}
	delete(r.stats, sh)
	return StatusOK
}

// GenerateETag returns a string handle of the token of data and lastModified (Unix seconds, 0 absent).
func (r *Registry) GenerateETag(data []byte, lastModified uint64) Handle {
	tag := ashcache.GenerateETag(data, fromUnix(lastModified))

	r.mu.Lock()
	defer r.mu.Unlock()
	sh := r.nextUnlocked()
	r.strings[sh] = tag
	return sh
}

func (r *Registry) String(sh Handle) (string, Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.strings[sh]
	if !ok {
		return "", StatusInvalidHandle
	}
	return s, StatusOK
}

func (r *Registry) FreeString(sh Handle) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.strings[sh]; !ok {
		return StatusInvalidHandle
	}
	delete(r.strings, sh)
	return StatusOK
}

// Outstanding returns the number of live caches and of handed out, not yet freed, outputs.
func (r *Registry) Outstanding() (caches, outputs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.caches), len(r.responses) + len(r.stats) + len(r.strings)
}

// Close destroys every cache still alive. Unfreed outputs are reported, not reclaimed.
func (r *Registry) Close() error {
	r.mu.Lock()
	caches := r.caches
	r.caches = make(map[Handle]*ashcache.Cache)
	leaked := len(r.responses) + len(r.stats) + len(r.strings)
	r.mu.Unlock()

	for _, c := range caches {
		_ = c.Close()
	}
	if len(caches) > 0 || leaked > 0 {
		log.Warn().Int("caches", len(caches)).Int("outputs", leaked).Msg("[ffi] registry closed with live handles")
	}
	return nil
}

func (r *Registry) create(cfg *config.Cache) Handle {
	c := ashcache.New(r.ctx, cfg, r.logger)

	r.mu.Lock()
	h := r.nextUnlocked()
	r.caches[h] = c
	r.mu.Unlock()

	log.Info().
		Uint64("handle", uint64(h)).
		Str("cache_id", c.ID()).
		Str("strategy", cfg.DB.Strategy.String()).
		Int64("max_size", cfg.DB.SizeBytes).
		Int64("max_entries", cfg.DB.MaxEntries).
		Msg("[ffi] cache created")
	return h
}

func (r *Registry) cache(h Handle) (*ashcache.Cache, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caches[h]
	return c, ok
}

func (r *Registry) nextUnlocked() Handle {
	r.last++
	return r.last
}

func marshalStats(s model.Stats) (buf []byte, err error) {
	buf = []byte(`{}`)
	for _, kv := range []struct {
		path  string
		value any
	}{
		{"hits", s.Hits},
		{"misses", s.Misses},
		{"puts", s.Puts},
		{"evictions", s.Evictions},
		{"expirations", s.Expirations},
		{"current_size", s.CurrentSize},
		{"current_entries", s.CurrentEntries},
		{"hit_rate", s.HitRate()},
	} {
		if buf, err = sjson.SetBytes(buf, kv.path, kv.value); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func fromUnix(secs uint64) time.Time {
	if secs == 0 {
		return time.Time{}
	}
	return time.Unix(clampInt64(secs), 0)
}

func toUnix(t time.Time) uint64 {
	if t.IsZero() || t.Unix() <= 0 {
		return 0
	}
	return uint64(t.Unix())
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
