package model

import "time"

// IsExpired reports whether the entry age reached its TTL (equality counts as expired).
// A non-positive TTL never expires.
func (e *Entry) IsExpired(now time.Time) bool {
	if e == nil || e.ttl <= 0 {
		return false
	}
	return now.Sub(e.createdAt) >= e.ttl
}

// IsFresh is the negation of IsExpired.
func (e *Entry) IsFresh(now time.Time) bool {
	return !e.IsExpired(now)
}
