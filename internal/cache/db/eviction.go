package db

import (
	"cmp"
	"slices"

	"github.com/Borislavv/go-ash-http-cache/config"
	"github.com/Borislavv/go-ash-http-cache/internal/cache/db/model"
)

// policy keeps the ordering metadata of one eviction strategy.
// Hooks are called by Map after it changed its own membership.
type policy interface {
	onInsert(entry *model.Entry)
	onAccess(entry *model.Entry)
	onRemove(entry *model.Entry)
	victim(items map[string]*model.Entry) (*model.Entry, bool)
	order(items map[string]*model.Entry) []string
	reset()
}

func newPolicy(strategy config.Strategy) policy {
	switch strategy {
	case config.StrategyLFU:
		return frequencyPolicy{}
	case config.StrategyFIFO:
		return insertionPolicy{}
	default:
		return newRecencyPolicy()
	}
}

// EvictUntilWithinLimit evicts victims until the aggregate size is at most limit,
// the store is empty, or backoff evictions were made.
func (m *Map) EvictUntilWithinLimit(limit, backoff int64) (freed, evicted int64) {
	for m.mem > limit && len(m.items) > 0 && backoff > 0 {
		victim, ok := m.Evict()
		if !ok {
			break
		}
		freed += victim.Weight()
		evicted++
		backoff--
	}
	return freed, evicted
}

// frequencyPolicy evicts the entry with the smallest access count.
// Ranks are derived from entry fields, so no auxiliary structure is kept.
type frequencyPolicy struct{}

func (frequencyPolicy) onInsert(*model.Entry) {}
func (frequencyPolicy) onAccess(*model.Entry) {}
func (frequencyPolicy) onRemove(*model.Entry) {}
func (frequencyPolicy) reset()                {}

func (frequencyPolicy) victim(items map[string]*model.Entry) (*model.Entry, bool) {
	return minBy(items, compareFrequency)
}

func (frequencyPolicy) order(items map[string]*model.Entry) []string {
	return sortedKeys(items, compareFrequency)
}

// insertionPolicy evicts the entry created first.
type insertionPolicy struct{}

func (insertionPolicy) onInsert(*model.Entry) {}
func (insertionPolicy) onAccess(*model.Entry) {}
func (insertionPolicy) onRemove(*model.Entry) {}
func (insertionPolicy) reset()                {}

func (insertionPolicy) victim(items map[string]*model.Entry) (*model.Entry, bool) {
	return minBy(items, compareInsertion)
}

func (insertionPolicy) order(items map[string]*model.Entry) []string {
	return sortedKeys(items, compareInsertion)
}

// Ties are broken by insertion sequence, so victim selection is deterministic.
func compareFrequency(a, b *model.Entry) int {
	if c := cmp.Compare(a.AccessCount(), b.AccessCount()); c != 0 {
		return c
	}
	return cmp.Compare(a.Seq(), b.Seq())
}

func compareInsertion(a, b *model.Entry) int {
	if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
		return c
	}
	return cmp.Compare(a.Seq(), b.Seq())
}

func minBy(items map[string]*model.Entry, compare func(a, b *model.Entry) int) (best *model.Entry, ok bool) {
	for _, entry := range items {
		if !ok || compare(entry, best) < 0 {
			best, ok = entry, true
		}
	}
	return best, ok
}

func sortedKeys(items map[string]*model.Entry, compare func(a, b *model.Entry) int) []string {
	entries := make([]*model.Entry, 0, len(items))
	for _, entry := range items {
		entries = append(entries, entry)
	}
	slices.SortFunc(entries, compare)

	keys := make([]string, len(entries))
	for i, entry := range entries {
		keys[i] = entry.Key()
	}
	return keys
}
