package cache

import (
	"context"
	"errors"

	"github.com/jonwraymond/wikiredirect/wiki"
)

// Sentinel errors for cache operations.
var (
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
	ErrNilStore   = errors.New("cache: store is nil")
	ErrBadBucket  = errors.New("cache: bucket name is required")
)

// Cache maps titles to previously resolved pages.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use; concurrent
//     stores of the same title are last-write-wins.
//   - Errors: a miss is (zero, false, nil), never an error. Lookup errors come
//     only from a durable tier that failed for reasons other than not-found.
//     Store errors report a durable write failure; the in-memory write has
//     already happened and is not rolled back.
type Cache interface {
	Lookup(ctx context.Context, title string) (wiki.Page, bool, error)
	Store(ctx context.Context, title string, page wiki.Page) error
}

// Store is a durable key/value tier holding encoded pages.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: methods must honor cancellation/deadlines.
//   - Errors: Get returns (nil, false, nil) when the key does not exist;
//     every other failure is an error.
type Store interface {
	// Get returns the value stored at key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put writes value at key and returns the store's confirmation
	// identifier for the write (an ETag for S3).
	Put(ctx context.Context, key string, value []byte) (string, error)
}
