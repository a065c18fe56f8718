// Package db implements the keyed store of the cache: entries, aggregate size
// accounting and the eviction index of the configured strategy.
//
// Map is not safe for concurrent use. Store membership, eviction index membership
// and aggregate size change together inside every Map method, so a caller holding
// one exclusive section around a Map call never observes them out of sync.
package db

import (
	"time"

	"github.com/Borislavv/go-ash-http-cache/config"
	"github.com/Borislavv/go-ash-http-cache/internal/cache/db/model"
)

// Map is the keyed collection of entries plus aggregate counters.
type Map struct {
	strategy config.Strategy
	policy   policy // eviction index, key set always equals the key set of items

	items map[string]*model.Entry
	mem   int64  // sum of payload lengths
	seq   uint64 // next insertion sequence
}

// NewMap creates an empty store whose eviction strategy is fixed for its lifetime.
func NewMap(strategy config.Strategy) *Map {
	strategy = strategy.Normalize()
	return &Map{
		strategy: strategy,
		policy:   newPolicy(strategy),
		items:    make(map[string]*model.Entry),
	}
}

func (m *Map) Strategy() config.Strategy { return m.strategy }
func (m *Map) Len() int64                { return int64(len(m.items)) }
func (m *Map) Mem() int64                { return m.mem }

// Get reads an entry without touching eviction metadata.
func (m *Map) Get(key string) (*model.Entry, bool) {
	entry, ok := m.items[key]
	return entry, ok
}

// Touch records a successful read of a stored entry and refreshes its eviction rank.
func (m *Map) Touch(entry *model.Entry, now time.Time) {
	entry.Touch(now)
	m.policy.onAccess(entry)
}

// Set inserts the entry, replacing (and reclaiming the size of) any entry stored under the same key.
func (m *Map) Set(entry *model.Entry) (replaced *model.Entry) {
	if old, hit := m.items[entry.Key()]; hit {
		m.removeUnlocked(old)
		replaced = old
	}

	m.seq++
	entry.SetSeq(m.seq)
	m.items[entry.Key()] = entry
	m.mem += entry.Weight()
	m.policy.onInsert(entry)
	return replaced
}

// Remove deletes a key and returns the reclaimed size.
func (m *Map) Remove(key string) (freedBytes int64, hit bool) {
	entry, hit := m.items[key]
	if !hit {
		return 0, false
	}
	m.removeUnlocked(entry)
	return entry.Weight(), true
}

// Evict removes exactly one victim chosen by the strategy.
func (m *Map) Evict() (victim *model.Entry, ok bool) {
	if len(m.items) == 0 {
		return nil, false
	}
	if victim, ok = m.policy.victim(m.items); !ok {
		return nil, false
	}
	m.removeUnlocked(victim)
	return victim, true
}

// RemoveExpired removes every entry whose TTL elapsed at now.
func (m *Map) RemoveExpired(now time.Time) (freed, removed int64) {
	for _, entry := range m.items {
		if entry.IsExpired(now) {
			m.removeUnlocked(entry)
			freed += entry.Weight()
			removed++
		}
	}
	return freed, removed
}

// Clear removes all entries and returns (freedBytes, itemsRemoved).
func (m *Map) Clear() (freedBytes int64, items int64) {
	freedBytes, items = m.mem, int64(len(m.items))
	m.items = make(map[string]*model.Entry)
	m.mem = 0
	m.policy.reset()
	return
}

// Walk iterates entries in no particular order until fn returns false.
func (m *Map) Walk(fn func(*model.Entry) bool) {
	for _, entry := range m.items {
		if !fn(entry) {
			return
		}
	}
}

// Keys returns the stored keys in eviction order: the next victim comes first.
func (m *Map) Keys() []string {
	return m.policy.order(m.items)
}

func (m *Map) removeUnlocked(entry *model.Entry) {
	delete(m.items, entry.Key())
	m.mem -= entry.Weight()
	m.policy.onRemove(entry)
}
