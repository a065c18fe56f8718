package ffi

import (
	"errors"

	"github.com/Borislavv/go-ash-http-cache/internal/cache"
)

// Status is the result of every boundary call. Negative values are failures;
// outputs of a call must not be used unless it returned StatusOK.
type Status int32

const (
	StatusOK            Status = 0
	StatusMiss          Status = -1
	StatusExpired       Status = -2
	StatusFull          Status = -3
	StatusInvalidKey    Status = -4
	StatusInvalidConfig Status = -5
	StatusInvalidHandle Status = -6
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMiss:
		return "miss"
	case StatusExpired:
		return "expired"
	case StatusFull:
		return "full"
	case StatusInvalidKey:
		return "invalid key"
	case StatusInvalidConfig:
		return "invalid config"
	case StatusInvalidHandle:
		return "invalid handle"
	default:
		return "unknown"
	}
}

func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, cache.ErrMiss):
		return StatusMiss
	case errors.Is(err, cache.ErrExpired):
		return StatusExpired
	case errors.Is(err, cache.ErrFull):
		return StatusFull
	case errors.Is(err, cache.ErrInvalidKey):
		return StatusInvalidKey
	default:
		return StatusInvalidConfig
	}
}
