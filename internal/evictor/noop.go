package evictor

import "time"

// NoOpEvictor is used when soft eviction is disabled.
type NoOpEvictor struct{}

func (NoOpEvictor) ForceCall(time.Duration) error { return nil }

func (NoOpEvictor) Metrics() (scans, hits, evictedItems, evictedBytes int64) {
	return 0, 0, 0, 0
}

func (NoOpEvictor) Close() error { return nil }
