package cache

import "errors"

var (
	// ErrMiss is returned when the key is absent.
	ErrMiss = errors.New("cache miss")
	// ErrExpired is returned when the key is present but its TTL elapsed.
	// The entry stays in the store until CleanupExpired or a sweep removes it.
	ErrExpired = errors.New("cache entry expired")
	// ErrFull is returned when an insertion cannot fit even into an empty store.
	ErrFull = errors.New("cache is full")
	// ErrInvalidKey is returned for malformed keys.
	ErrInvalidKey = errors.New("invalid cache key")
	// ErrInvalidConfig is returned when the policy rejects a payload: disabled cache,
	// non-cacheable content type or payload size out of bounds.
	ErrInvalidConfig = errors.New("rejected by cache policy")
)
