package cachedtime

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Borislavv/go-ash-http-cache/config"
)

const cacheTimeEach = 10 * time.Millisecond

// Clock is the time source of the cache. Every freshness decision goes through it.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Real is the wall clock.
var Real Clock = realClock{}

// Ticker is a coarse clock refreshed every resolution in background.
// After its context is done it falls back to time.Now.
type Ticker struct {
	now    atomic.Pointer[time.Time]
	closed atomic.Bool
}

// New starts a Ticker which lives until ctx is done.
func New(ctx context.Context, resolution time.Duration) *Ticker {
	if resolution <= 0 {
		resolution = cacheTimeEach
	}

	t := &Ticker{}
	now := time.Now()
	t.now.Store(&now)

	ticker := time.NewTicker(resolution)
	go func() {
		defer ticker.Stop()
		defer t.closed.Store(true)
		for {
			select {
			case <-ctx.Done():
				return
			case tt := <-ticker.C:
				t.now.Store(&tt)
			}
		}
	}()

	return t
}

func (t *Ticker) Now() time.Time {
	if t.closed.Load() {
		return time.Now()
	}
	return *t.now.Load()
}

// ForConfig returns a Ticker when cfg.DB.CacheTimeEnabled is set and Real otherwise.
func ForConfig(ctx context.Context, cfg *config.Cache) Clock {
	if cfg != nil && cfg.DB.CacheTimeEnabled {
		return New(ctx, cacheTimeEach)
	}
	return Real
}
