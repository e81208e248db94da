package data

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
)

// Cache is a file-based memo of raw API response bodies, keyed by the SHA-1
// of the request identity. A nil *Cache is valid and caches nothing, so
// clients can carry one unconditionally.
//
// Entries never expire on their own; callers own the cache directory and
// clear it when stale data matters.
type Cache struct {
	dir string
}

// NewCache opens (creating if needed) a cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Get returns the cached body for key, or (nil, false) on a miss. Unreadable
// entries count as misses; the file is left in place for inspection.
func (c *Cache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := os.ReadFile(c.path(key))
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	return raw, true
}

// Set stores a body under key. Failures are swallowed: the cache is an
// optimization, never a source of truth.
func (c *Cache) Set(key string, body []byte) {
	if c == nil {
		return
	}
	_ = os.WriteFile(c.path(key), body, 0o644)
}

// Remove deletes the entry for key if present.
func (c *Cache) Remove(key string) {
	if c == nil {
		return
	}
	_ = os.Remove(c.path(key))
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) path(key string) string {
	sum := sha1.Sum([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:]))
}
