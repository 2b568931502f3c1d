package cache

import (
	"context"
	"fmt"

	"github.com/jonwraymond/wikiredirect/observe"
	"github.com/jonwraymond/wikiredirect/wiki"
)

// TieredConfig configures a Tiered cache.
type TieredConfig struct {
	// Capacity bounds the in-memory tier. Zero means DefaultCapacity.
	Capacity int

	// Durable is the optional durable tier. Nil means memory only; entries
	// will not survive a restart.
	Durable Store

	// Logger receives cache events. Nil means no logging.
	Logger observe.Logger
}

// Tiered is the two-tier resolution cache.
type Tiered struct {
	memory  *Memory
	durable Store
	logger  observe.Logger
}

var _ Cache = (*Tiered)(nil)

// NewTiered creates a Tiered cache.
func NewTiered(cfg TieredConfig) (*Tiered, error) {
	memory, err := NewMemory(cfg.Capacity)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &Tiered{memory: memory, durable: cfg.Durable, logger: logger}, nil
}

// Durable reports whether a durable tier is configured.
func (t *Tiered) Durable() bool {
	return t.durable != nil
}

// Lookup returns the page cached for title. Memory is consulted first; a
// durable hit is promoted into memory before returning. Titles that cannot
// form a valid durable key are looked up in memory only.
func (t *Tiered) Lookup(ctx context.Context, title string) (wiki.Page, bool, error) {
	key := KeyPrefix + title
	if page, ok := t.memory.Get(key); ok {
		t.logger.Debug(ctx, "memory cache hit", observe.F("key", key))
		return page, true, nil
	}

	if t.durable == nil {
		return wiki.Page{}, false, nil
	}
	if !t.persistable(ctx, title) {
		return wiki.Page{}, false, nil
	}

	data, found, err := t.durable.Get(ctx, key)
	if err != nil {
		return wiki.Page{}, false, fmt.Errorf("cache: durable lookup %q: %w", key, err)
	}
	if !found {
		return wiki.Page{}, false, nil
	}

	page, err := wiki.Decode(data)
	if err != nil {
		return wiki.Page{}, false, fmt.Errorf("cache: durable entry %q: %w", key, err)
	}

	t.logger.Debug(ctx, "durable cache hit", observe.F("key", key))
	t.memory.Set(key, page)
	return page, true, nil
}

// Store records page for title in memory and, if configured, the durable
// tier. The memory write is unconditional. A durable failure is returned but
// leaves the memory entry in place.
func (t *Tiered) Store(ctx context.Context, title string, page wiki.Page) error {
	key := KeyPrefix + title
	if t.memory.Set(key, page) {
		t.logger.Debug(ctx, "evicted least recently used entry", observe.F("size", t.memory.Len()))
	}

	if t.durable == nil {
		t.logger.Info(ctx, "no durable store; cache entry will not survive restart", observe.F("key", key))
		return nil
	}
	if !t.persistable(ctx, title) {
		return nil
	}

	data, err := wiki.Encode(page)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}
	etag, err := t.durable.Put(ctx, key, data)
	if err != nil {
		return fmt.Errorf("cache: durable store %q: %w", key, err)
	}

	t.logger.Info(ctx, "stored durable cache entry", observe.F("key", key), observe.F("etag", etag))
	return nil
}

// persistable reports whether title forms a valid durable key.
func (t *Tiered) persistable(ctx context.Context, title string) bool {
	if _, err := Key(title); err != nil {
		t.logger.Debug(ctx, "title not valid for durable tier; memory only", observe.F("error", err.Error()))
		return false
	}
	return true
}
