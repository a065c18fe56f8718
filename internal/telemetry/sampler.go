package telemetry

import (
	"github.com/Borislavv/go-ash-http-cache/internal/evictor"
	"github.com/Borislavv/go-ash-http-cache/internal/lifetimer"
	"github.com/Borislavv/go-ash-http-cache/model"
)

// StatsSource is satisfied by the cache.
type StatsSource interface {
	Stats() model.Stats
}

type sampler struct {
	cache     StatsSource
	evictor   evictor.Evictor
	lifetimer lifetimer.Lifetimer
}

func newSampler(c StatsSource, e evictor.Evictor, lt lifetimer.Lifetimer) sampler {
	return sampler{cache: c, evictor: e, lifetimer: lt}
}

// snapshot holds cumulative counters (monotonic until ResetStats).
type snapshot struct {
	hits        uint64
	misses      uint64
	puts        uint64
	evictions   uint64
	expirations uint64

	softScans        uint64
	softHits         uint64
	softEvictedItems uint64
	softEvictedBytes uint64

	sweepRemoved uint64
	sweepScans   uint64
	sweepHits    uint64
	sweepMisses  uint64

	// gauges, not subject to delta
	size    int64
	entries int64
}

func (s sampler) snapshot() snapshot {
	stats := s.cache.Stats()
	softScans, softHits, softItems, softBytes := s.evictor.Metrics()
	removed, scans, hits, misses := s.lifetimer.Metrics()

	return snapshot{
		hits:        stats.Hits,
		misses:      stats.Misses,
		puts:        stats.Puts,
		evictions:   stats.Evictions,
		expirations: stats.Expirations,

		softScans:        uint64(max(softScans, 0)),
		softHits:         uint64(max(softHits, 0)),
		softEvictedItems: uint64(max(softItems, 0)),
		softEvictedBytes: uint64(max(softBytes, 0)),

		sweepRemoved: uint64(max(removed, 0)),
		sweepScans:   uint64(max(scans, 0)),
		sweepHits:    uint64(max(hits, 0)),
		sweepMisses:  uint64(max(misses, 0)),

		size:    stats.CurrentSize,
		entries: stats.CurrentEntries,
	}
}

// deltaSnapshot converts cumulative snapshots to per-interval deltas.
// If counters reset (cur < prev), it treats cur as the delta.
func deltaSnapshot(prev, cur snapshot) snapshot {
	return snapshot{
		hits:        delta(prev.hits, cur.hits),
		misses:      delta(prev.misses, cur.misses),
		puts:        delta(prev.puts, cur.puts),
		evictions:   delta(prev.evictions, cur.evictions),
		expirations: delta(prev.expirations, cur.expirations),

		softScans:        delta(prev.softScans, cur.softScans),
		softHits:         delta(prev.softHits, cur.softHits),
		softEvictedItems: delta(prev.softEvictedItems, cur.softEvictedItems),
		softEvictedBytes: delta(prev.softEvictedBytes, cur.softEvictedBytes),

		sweepRemoved: delta(prev.sweepRemoved, cur.sweepRemoved),
		sweepScans:   delta(prev.sweepScans, cur.sweepScans),
		sweepHits:    delta(prev.sweepHits, cur.sweepHits),
		sweepMisses:  delta(prev.sweepMisses, cur.sweepMisses),

		size:    cur.size,
		entries: cur.entries,
	}
}

func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}

// hitRate of an interval, 0 when nothing was requested.
func (s snapshot) hitRate() float64 {
	return model.Stats{Hits: s.hits, Misses: s.misses}.HitRate()
}
