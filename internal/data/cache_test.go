package data

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	t.Run("set then get", func(t *testing.T) {
		c, err := NewCache(t.TempDir())
		require.NoError(t, err)

		c.Set("k", []byte("payload"))
		got, ok := c.Get("k")
		require.True(t, ok)
		assert.Equal(t, []byte("payload"), got)
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		c, err := NewCache(t.TempDir())
		require.NoError(t, err)
		_, ok := c.Get("nothing")
		assert.False(t, ok)
	})

	t.Run("empty body is a miss", func(t *testing.T) {
		c, err := NewCache(t.TempDir())
		require.NoError(t, err)
		c.Set("k", nil)
		_, ok := c.Get("k")
		assert.False(t, ok)
	})

	t.Run("remove deletes the entry", func(t *testing.T) {
		c, err := NewCache(t.TempDir())
		require.NoError(t, err)
		c.Set("k", []byte("x"))
		c.Remove("k")
		_, ok := c.Get("k")
		assert.False(t, ok)
	})

	t.Run("clear drops everything", func(t *testing.T) {
		c, err := NewCache(t.TempDir())
		require.NoError(t, err)
		c.Set("a", []byte("1"))
		c.Set("b", []byte("2"))
		require.NoError(t, c.Clear())
		_, okA := c.Get("a")
		_, okB := c.Get("b")
		assert.False(t, okA)
		assert.False(t, okB)
	})

	t.Run("keys with path characters are safe", func(t *testing.T) {
		dir := t.TempDir()
		c, err := NewCache(dir)
		require.NoError(t, err)
		c.Set("market:B1620:2021-05-04:*", []byte("csv"))
		got, ok := c.Get("market:B1620:2021-05-04:*")
		require.True(t, ok)
		assert.Equal(t, []byte("csv"), got)
		// Nothing escaped the cache directory.
		matches, err := filepath.Glob(filepath.Join(dir, "*"))
		require.NoError(t, err)
		assert.Len(t, matches, 1)
	})

	t.Run("nil cache is inert", func(t *testing.T) {
		var c *Cache
		c.Set("k", []byte("x"))
		_, ok := c.Get("k")
		assert.False(t, ok)
		c.Remove("k")
		assert.NoError(t, c.Clear())
	})

	t.Run("empty dir rejected", func(t *testing.T) {
		_, err := NewCache("")
		assert.Error(t, err)
	})
}
