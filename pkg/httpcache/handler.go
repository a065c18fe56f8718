// Package httpcache serves GET and HEAD requests from a cache in front of an
// upstream http.Handler. Keys are request targets; conditional request headers
// are answered with 304 Not Modified when the cached validators match.
package httpcache

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Borislavv/go-ash-http-cache/internal/cache"
	"github.com/Borislavv/go-ash-http-cache/model"
	"golang.org/x/sync/singleflight"
)

const (
	HeaderXCache = "X-Cache"
	cacheHit     = "HIT"
	cacheMiss    = "MISS"
)

// Cache is the part of the cache the handler needs.
type Cache interface {
	GetConditional(key, ifNoneMatch string, ifModifiedSince time.Time) (*model.Response, error)
	PutWithMetadata(key string, data []byte, meta model.Metadata) error
}

type Handler struct {
	cache  Cache
	next   http.Handler
	logger *slog.Logger
	group  singleflight.Group
}

func New(c Cache, next http.Handler, logger *slog.Logger) *Handler {
	return &Handler{cache: c, next: next, logger: logger}
}

// Middleware wraps next with a Handler over c.
func Middleware(c Cache, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return New(c, next, logger)
	}
}

// KeyOf derives the cache key from the request target.
func KeyOf(r *http.Request) string {
	return r.URL.RequestURI()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.next.ServeHTTP(w, r)
		return
	}

	key := KeyOf(r)
	ifNoneMatch := r.Header.Get("If-None-Match")

	// If-None-Match takes precedence over If-Modified-Since.
	var ifModifiedSince time.Time
	if ifNoneMatch == "" {
		ifModifiedSince = parseHTTPDate(r.Header.Get("If-Modified-Since"))
	}

	gzipOK := acceptsGzip(r.Header.Get("Accept-Encoding"))

	resp, err := h.cache.GetConditional(key, singleStrongTag(ifNoneMatch), ifModifiedSince)
	switch {
	case err == nil && resp.IsCompressed && !gzipOK:
		// the stored representation is unreadable for this client
		h.next.ServeHTTP(w, r)
	case err == nil:
		notModified := resp.NeedsValidation || (ifNoneMatch != "" && matchETag(ifNoneMatch, resp.ETag))
		h.serveHit(w, r, resp, notModified)
	case errors.Is(err, cache.ErrMiss), errors.Is(err, cache.ErrExpired):
		h.serveMiss(w, r, key, gzipOK)
	default:
		h.logger.Debug("[httpcache] lookup failed, bypassing", "key", key, "err", err)
		h.next.ServeHTTP(w, r)
	}
}

func (h *Handler) serveHit(w http.ResponseWriter, r *http.Request, resp *model.Response, notModified bool) {
	header := w.Header()
	header.Set(HeaderXCache, cacheHit)
	if resp.ETag != "" {
		header.Set("ETag", resp.ETag)
	}
	if !resp.LastModified.IsZero() {
		header.Set("Last-Modified", resp.LastModified.UTC().Format(http.TimeFormat))
	}

	if notModified {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if resp.ContentType != "" {
		header.Set("Content-Type", resp.ContentType)
	}
	if resp.IsCompressed {
		header.Set("Content-Encoding", "gzip")
		header.Add("Vary", "Accept-Encoding")
	}
	header.Set("Age", strconv.FormatInt(int64(max(resp.LastAccessed.Sub(resp.CreatedAt), 0)/time.Second), 10))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(resp.Data)
	}
}

// serveMiss fetches the upstream once per key and accepted coding, however many
// requests miss concurrently.
func (h *Handler) serveMiss(w http.ResponseWriter, r *http.Request, key string, gzipOK bool) {
	flight := key
	if gzipOK {
		flight += "\x00gzip"
	}

	v, _, _ := h.group.Do(flight, func() (any, error) {
		bw := newBufferingWriter()
		upstream := r.Clone(r.Context())
		upstream.Method = http.MethodGet
		upstream.Header.Del("If-None-Match")
		upstream.Header.Del("If-Modified-Since")
		h.next.ServeHTTP(bw, upstream)

		resp := &upstreamResponse{statusCode: bw.statusCode, header: bw.header, body: bw.body.Bytes()}
		h.store(key, resp)
		return resp, nil
	})

	resp := v.(*upstreamResponse)
	w.Header().Set(HeaderXCache, cacheMiss)
	resp.writeTo(w, r.Method != http.MethodHead)
}

func (h *Handler) store(key string, resp *upstreamResponse) {
	if resp.statusCode != http.StatusOK {
		return
	}
	store, ttl := storePolicy(resp.header)
	if !store {
		return
	}

	encoding := strings.ToLower(resp.header.Get("Content-Encoding"))
	if encoding != "" && encoding != "identity" && encoding != "gzip" {
		return
	}

	err := h.cache.PutWithMetadata(key, resp.body, model.Metadata{
		ContentType:  resp.header.Get("Content-Type"),
		ETag:         resp.header.Get("ETag"),
		LastModified: parseHTTPDate(resp.header.Get("Last-Modified")),
		TTL:          ttl,
		IsCompressed: encoding == "gzip",
	})
	if err != nil {
		h.logger.Debug("[httpcache] response not stored", "key", key, "err", err)
	}
}
