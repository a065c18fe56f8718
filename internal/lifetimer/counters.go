package lifetimer

import "sync/atomic"

type lifetimerCounters struct {
	removed    atomic.Int64 // expired entries removed
	scans      atomic.Int64 // total sweeps
	scanHits   atomic.Int64 // sweeps which removed something
	scanMisses atomic.Int64 // sweeps which found nothing expired
}

func newLifetimerCounters() *lifetimerCounters { return &lifetimerCounters{} }

func (c *lifetimerCounters) snapshot() (removed, scans, hits, misses int64) {
	return c.removed.Load(), c.scans.Load(), c.scanHits.Load(), c.scanMisses.Load()
}
