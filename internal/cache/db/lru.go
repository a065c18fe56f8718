package db

import (
	"math"

	"github.com/Borislavv/go-ash-http-cache/internal/cache/db/model"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// recencyPolicy keeps keys in a doubly linked sequence: head is the most recently
// used key, tail is the eviction victim. The sequence never evicts on its own,
// capacity is enforced by the store.
type recencyPolicy struct {
	lru *simplelru.LRU[string, *model.Entry]
}

func newRecencyPolicy() *recencyPolicy {
	lru, err := simplelru.NewLRU[string, *model.Entry](math.MaxInt, nil)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &recencyPolicy{lru: lru}
}

func (p *recencyPolicy) onInsert(entry *model.Entry) {
	p.lru.Add(entry.Key(), entry)
}

// onAccess moves the key to the head.
func (p *recencyPolicy) onAccess(entry *model.Entry) {
	p.lru.Get(entry.Key())
}

func (p *recencyPolicy) onRemove(entry *model.Entry) {
	p.lru.Remove(entry.Key())
}

func (p *recencyPolicy) victim(map[string]*model.Entry) (*model.Entry, bool) {
	_, entry, ok := p.lru.GetOldest()
	return entry, ok
}

// order lists keys from tail (least recently used) to head.
func (p *recencyPolicy) order(map[string]*model.Entry) []string {
	return p.lru.Keys()
}

func (p *recencyPolicy) reset() {
	p.lru.Purge()
}
