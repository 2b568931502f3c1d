package search

import (
	"errors"
	"fmt"
)

// Sentinel errors for search operations.
var (
	// ErrUpstream matches any non-success response from the search API.
	ErrUpstream = errors.New("search: upstream search API failed")

	// ErrNilSite indicates Config.Site was not set.
	ErrNilSite = errors.New("search: site is required")

	// ErrMissingSpace indicates Filter.Space was empty.
	ErrMissingSpace = errors.New("search: space is required")
)

// UpstreamError is returned when the search API answers with a non-2xx status.
// It is never retried.
type UpstreamError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("search: upstream returned %s for %s", e.Status, e.URL)
}

// Is reports whether target is ErrUpstream.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
