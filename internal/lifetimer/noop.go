package lifetimer

import "time"

// NoOpLifetimer is used when the background sweeper is disabled.
// Expired entries are then removed only by an explicit CleanupExpired.
type NoOpLifetimer struct{}

func (NoOpLifetimer) ForceSweep(time.Duration) error { return nil }

func (NoOpLifetimer) Metrics() (removed, scans, hits, misses int64) {
	return 0, 0, 0, 0
}

func (NoOpLifetimer) Close() error { return nil }
