// Package cache holds the memoization collaborators injected into the
// language tagger and the sentiment scorers.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultSize = 1000

type Cache[V any] interface {
	Get(key string) (V, bool)
	Add(key string, value V)
}

// LRU is a bounded in-process cache that evicts the least recently used key.
type LRU[V any] struct {
	entries *lru.Cache[string, V]
}

func NewLRU[V any](size int) *LRU[V] {
	if size <= 0 {
		size = DefaultSize
	}
	// lru.New only fails for non-positive sizes
	entries, _ := lru.New[string, V](size)
	return &LRU[V]{entries: entries}
}

func (c *LRU[V]) Get(key string) (V, bool) {
	return c.entries.Get(key)
}

func (c *LRU[V]) Add(key string, value V) {
	c.entries.Add(key, value)
}

func (c *LRU[V]) Len() int {
	return c.entries.Len()
}

// Disabled never stores anything. It is used when caching is switched off.
type Disabled[V any] struct{}

func (Disabled[V]) Get(string) (V, bool) {
	var zero V
	return zero, false
}

func (Disabled[V]) Add(string, V) {}

// Tiered checks a fast local cache before a shared one and backfills the
// local cache on a shared hit.
type Tiered[V any] struct {
	Local  Cache[V]
	Shared Cache[V]
}

func (t Tiered[V]) Get(key string) (V, bool) {
	if v, ok := t.Local.Get(key); ok {
		return v, true
	}
	v, ok := t.Shared.Get(key)
	if ok {
		t.Local.Add(key, v)
	}
	return v, ok
}

func (t Tiered[V]) Add(key string, value V) {
	t.Local.Add(key, value)
	t.Shared.Add(key, value)
}

// New returns a Disabled cache for size 0 and an LRU otherwise.
func New[V any](size int) Cache[V] {
	if size == 0 {
		return Disabled[V]{}
	}
	return NewLRU[V](size)
}
