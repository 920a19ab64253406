package extractor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/pith/internal/codemap"
)

// Cache is a bounded in-memory store of extraction results. Entries are
// keyed by path, content hash, language and options, so edited files miss
// naturally and nothing needs invalidating.
type Cache struct {
	store otter.Cache[string, *codemap.Codemap]
}

// NewCache creates a cache holding up to size codemaps. A size of zero
// returns a nil cache, which disables caching.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		return nil, nil
	}

	store, err := otter.MustBuilder[string, *codemap.Codemap](size).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction cache: %w", err)
	}
	return &Cache{store: store}, nil
}

func (c *Cache) get(key string) (*codemap.Codemap, bool) {
	return c.store.Get(key)
}

func (c *Cache) set(key string, cm *codemap.Codemap) {
	c.store.Set(key, cm)
}

// Len returns the number of cached codemaps.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.store.Size()
}

// Hits returns how many lookups were served from the cache.
func (c *Cache) Hits() int64 {
	if c == nil {
		return 0
	}
	return c.store.Stats().Hits()
}

// Close releases the cache's background resources.
func (c *Cache) Close() {
	if c != nil {
		c.store.Close()
	}
}

func cacheKey(path string, content []byte, lang codemap.Language, opts codemap.ExtractOptions) string {
	sum := sha256.Sum256(content)
	return path + "\x00" + hex.EncodeToString(sum[:]) + "\x00" + string(lang) +
		"\x00" + strconv.FormatBool(opts.IncludeDocs) + strconv.FormatBool(opts.IncludePrivate)
}
