package indexing

import (
	"sync"
	"sync/atomic"

	"github.com/standardbeagle/rbdoc/internal/ast"
)

// parseCache keeps the last parse of every file keyed by path. An entry is
// reused only while the file content hashes to the same value, so a watch
// cycle re-parses just the files that changed.
type parseCache struct {
	mu      sync.RWMutex
	entries map[string]*ast.File

	hits   int64
	misses int64
}

func newParseCache() *parseCache {
	return &parseCache{entries: make(map[string]*ast.File)}
}

// get returns the cached parse of path if it was made from content hashing to sum.
func (c *parseCache) get(path string, sum uint64) (*ast.File, bool) {
	c.mu.RLock()
	file, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && file.Hash == sum {
		atomic.AddInt64(&c.hits, 1)
		return file, true
	}
	atomic.AddInt64(&c.misses, 1)
	return nil, false
}

func (c *parseCache) put(file *ast.File) {
	c.mu.Lock()
	c.entries[file.Path] = file
	c.mu.Unlock()
}

// hash returns the content hash recorded for path.
func (c *parseCache) hash(path string) (uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	file, ok := c.entries[path]
	if !ok {
		return 0, false
	}
	return file.Hash, true
}

func (c *parseCache) remove(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// CacheStats reports parse cache effectiveness.
type CacheStats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// HitRate is the share of lookups served from the cache.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (c *parseCache) stats() CacheStats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return CacheStats{
		Entries: n,
		Hits:    atomic.LoadInt64(&c.hits),
		Misses:  atomic.LoadInt64(&c.misses),
	}
}
