package model

import "time"

// Entry is a detached copy of one cached payload and its metadata.
// Mutating an Entry never affects the cache.
type Entry struct {
	Key          string
	Data         []byte
	ContentType  string    // empty when absent
	ETag         string    // empty when absent
	LastModified time.Time // zero when absent
	CreatedAt    time.Time
	LastAccessed time.Time
	AccessCount  uint64
	TTL          time.Duration
	IsCompressed bool
}

// ExpiresAt returns the first instant at which the entry is no longer fresh.
func (e *Entry) ExpiresAt() time.Time {
	return e.CreatedAt.Add(e.TTL)
}

// Response is the result of a conditional read.
// NeedsValidation reports that the request validators (If-None-Match / If-Modified-Since)
// match the entry, so the protocol layer may answer "not modified".
// The payload is returned regardless.
type Response struct {
	Entry
	NeedsValidation bool
}

// Metadata carries the optional attributes of a put.
// Zero values mean "absent": no content type, no ETag (generated when enabled),
// no Last-Modified, default TTL.
type Metadata struct {
	ContentType  string
	ETag         string
	LastModified time.Time
	TTL          time.Duration
	IsCompressed bool
}
