package cache

import "github.com/Borislavv/go-ash-http-cache/model"

// counters are cumulative statistics. They are guarded by the Cache lock together
// with the store, so a snapshot is always consistent with store membership.
type counters struct {
	hits        uint64
	misses      uint64
	puts        uint64
	evictions   uint64
	expirations uint64
}

func (c *counters) snapshot(currentSize, currentEntries int64) model.Stats {
	return model.Stats{
		Hits:           c.hits,
		Misses:         c.misses,
		Puts:           c.puts,
		Evictions:      c.evictions,
		Expirations:    c.expirations,
		CurrentSize:    currentSize,
		CurrentEntries: currentEntries,
	}
}

func (c *counters) reset() { *c = counters{} }
