package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jonwraymond/wikiredirect/wiki"
)

// DefaultCapacity is the in-memory tier size used when none is configured.
// It is deliberately small; the service runs in memory-constrained dynos.
const DefaultCapacity = 42

// Memory is the bounded in-memory tier. When full, adding a new key evicts
// the least recently used entry. It is safe for concurrent use.
type Memory struct {
	entries *lru.Cache[string, wiki.Page]
}

// NewMemory creates a Memory holding at most capacity entries. A
// non-positive capacity means DefaultCapacity.
func NewMemory(capacity int) (*Memory, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, err := lru.New[string, wiki.Page](capacity)
	if err != nil {
		return nil, err
	}
	return &Memory{entries: entries}, nil
}

// Get returns the page at key and marks it most recently used.
func (m *Memory) Get(key string) (wiki.Page, bool) {
	return m.entries.Get(key)
}

// Set stores page at key and reports whether an entry was evicted.
func (m *Memory) Set(key string, page wiki.Page) bool {
	return m.entries.Add(key, page)
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	return m.entries.Len()
}
