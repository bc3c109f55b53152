package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	c := New[string](4)
	c.Set("a", "alpha", time.Second)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "alpha", v)
	assert.Equal(t, 1, c.Size())
}

func TestGetMissing(t *testing.T) {
	c := New[int](4)
	v, ok := c.Get("nope")
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestZeroTTLIsImmediatelyExpired(t *testing.T) {
	c := New[string](4)
	c.Set("a", "alpha", 0)

	_, ok := c.Get("a")
	assert.False(t, ok)
	// the stale entry is dropped by the failed Get
	assert.Equal(t, 0, c.Size())
}

func TestOverwriteResetsTTLKeepsSize(t *testing.T) {
	c := New[string](4)
	c.Set("a", "alpha", 0)
	c.Set("a", "beta", time.Minute)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "beta", v)
	assert.Equal(t, 1, c.Size())
}

func TestCapacityEvictsOldestInserted(t *testing.T) {
	c := New[int](3)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Set("c", 3, time.Minute)
	c.Set("d", 4, time.Minute)

	assert.Equal(t, 3, c.Size())

	_, ok := c.Get("a")
	assert.False(t, ok, "earliest-inserted key should be evicted first")

	for _, k := range []string{"b", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, "key %q should survive", k)
	}
}

func TestCapacityPrefersExpiredEviction(t *testing.T) {
	c := New[int](3)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, 0) // already expired
	c.Set("c", 3, time.Minute)
	c.Set("d", 4, time.Minute)

	// the expired "b" made room, so "a" survives despite being oldest
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestSizeNeverExceedsCapacity(t *testing.T) {
	c := New[int](5)
	for i := 0; i < 50; i++ {
		c.Set(string(rune('a'+i%26)), i, time.Minute)
		assert.LessOrEqual(t, c.Size(), 5)
	}
}

func TestClear(t *testing.T) {
	c := New[int](4)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Clear()

	assert.Equal(t, 0, c.Size())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestDefaultCapacity(t *testing.T) {
	c := New[int](0)
	assert.Equal(t, DefaultMaxEntries, c.max)
}
