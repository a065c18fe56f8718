package model

import "time"

// MatchesETag reports whether an If-None-Match value equals the entry ETag.
// Absent values on either side never match.
func (e *Entry) MatchesETag(ifNoneMatch string) bool {
	return ifNoneMatch != "" && e.etag != "" && ifNoneMatch == e.etag
}

// NotModifiedSince reports whether the entry Last-Modified is not after ifModifiedSince,
// compared at HTTP-date (seconds) resolution. Absent values on either side never match.
func (e *Entry) NotModifiedSince(ifModifiedSince time.Time) bool {
	if ifModifiedSince.IsZero() || e.lastModified.IsZero() {
		return false
	}
	return !e.lastModified.Truncate(time.Second).After(ifModifiedSince.Truncate(time.Second))
}
