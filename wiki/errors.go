package wiki

import "errors"

// Sentinel errors for the wiki package.
var (
	// ErrInvalidSite indicates the configured site base URL is not an absolute http(s) URL.
	ErrInvalidSite = errors.New("wiki: site must be an absolute http(s) URL")

	// ErrMissingWebUI indicates a page has no web UI link to redirect to.
	ErrMissingWebUI = errors.New("wiki: page has no web UI link")
)
