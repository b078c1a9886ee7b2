package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUEvictsOldest(t *testing.T) {
	c := NewLRU[int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	_, ok := c.Get("a")
	assert.False(t, ok)
	v, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, c.Len())
}

func TestNew(t *testing.T) {
	disabled := New[string](0)
	disabled.Add("k", "v")
	_, ok := disabled.Get("k")
	assert.False(t, ok)

	enabled := New[string](10)
	enabled.Add("k", "v")
	v, ok := enabled.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestTieredBackfillsLocal(t *testing.T) {
	local := NewLRU[int](10)
	shared := NewLRU[int](10)
	shared.Add("k", 7)

	tiered := Tiered[int]{Local: local, Shared: shared}
	v, ok := tiered.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	v, ok = local.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	tiered.Add("n", 1)
	_, ok = shared.Get("n")
	assert.True(t, ok)

	_, ok = tiered.Get("missing")
	assert.False(t, ok)
}
