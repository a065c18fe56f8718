package model

import (
	"bytes"
	"time"

	"github.com/Borislavv/go-ash-http-cache/model"
)

// Entry is the stored representation of one cached payload.
// Everything except the access bookkeeping (lastAccessed, accessCount) is immutable
// after creation. Entry is not safe for concurrent use: the owning store serializes access.
type Entry struct {
	key          string
	data         []byte
	contentType  string
	etag         string
	lastModified time.Time
	createdAt    time.Time
	lastAccessed time.Time
	accessCount  uint64
	ttl          time.Duration
	isCompressed bool
	seq          uint64 // insertion sequence, breaks ties of frequency and insertion order strategies
}

// NewEntry copies data, so the caller may reuse its buffer.
func NewEntry(key string, data []byte, meta model.Metadata, ttl time.Duration, now time.Time) *Entry {
	return &Entry{
		key:          key,
		data:         bytes.Clone(data),
		contentType:  meta.ContentType,
		etag:         meta.ETag,
		lastModified: meta.LastModified,
		createdAt:    now,
		lastAccessed: now,
		ttl:          ttl,
		isCompressed: meta.IsCompressed,
	}
}

func (e *Entry) Key() string             { return e.key }
func (e *Entry) ETag() string            { return e.etag }
func (e *Entry) LastModified() time.Time { return e.lastModified }
func (e *Entry) CreatedAt() time.Time    { return e.createdAt }
func (e *Entry) AccessCount() uint64     { return e.accessCount }
func (e *Entry) TTL() time.Duration      { return e.ttl }
func (e *Entry) Seq() uint64             { return e.seq }
func (e *Entry) SetSeq(seq uint64)       { e.seq = seq }

// Weight is the number of bytes the entry accounts for in the store size.
func (e *Entry) Weight() int64 { return int64(len(e.data)) }

// Touch records a successful read.
func (e *Entry) Touch(now time.Time) {
	e.accessCount++
	e.lastAccessed = now
}

// Snapshot returns a detached copy of the entry, payload included.
func (e *Entry) Snapshot() *model.Entry {
	return &model.Entry{
		Key:          e.key,
		Data:         bytes.Clone(e.data),
		ContentType:  e.contentType,
		ETag:         e.etag,
		LastModified: e.lastModified,
		CreatedAt:    e.createdAt,
		LastAccessed: e.lastAccessed,
		AccessCount:  e.accessCount,
		TTL:          e.ttl,
		IsCompressed: e.isCompressed,
	}
}
