package resolve

import "errors"

// Sentinel errors for resolution.
var (
	ErrNilSite   = errors.New("resolve: site is nil")
	ErrNilSearch = errors.New("resolve: searcher is nil")
	ErrNilCache  = errors.New("resolve: cache is nil")
	ErrNoSpace   = errors.New("resolve: space is required")
)
