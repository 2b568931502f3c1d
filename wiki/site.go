package wiki

import (
	"fmt"
	"net/url"
	"strings"
)

// Site builds absolute URLs under a wiki site's /wiki root.
//
// Site is immutable and safe for concurrent use.
type Site struct {
	origin string
}

// NewSite parses base (e.g. "https://nextstrain.atlassian.net"). Any path,
// query or fragment on base is ignored; only scheme and host are kept.
func NewSite(base string) (*Site, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSite, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSite, base)
	}
	return &Site{origin: u.Scheme + "://" + u.Host}, nil
}

// MustSite is like NewSite but panics on error. Intended for tests and
// package-level defaults.
func MustSite(base string) *Site {
	s, err := NewSite(base)
	if err != nil {
		panic(err)
	}
	return s
}

// Origin returns the scheme://host the site is rooted at.
func (s *Site) Origin() string {
	return s.origin
}

// URL joins a wiki-relative path onto the site. Leading slashes are
// stripped first, so "/spaces/X" and "spaces/X" yield the same URL.
func (s *Site) URL(path string) string {
	return s.origin + "/wiki/" + strings.TrimLeft(path, "/")
}

// SpaceURL returns the landing page of a space.
func (s *Site) SpaceURL(space string) string {
	return s.URL("/spaces/" + url.PathEscape(space))
}

// SearchURL returns the full-text search page for text. Spaces are encoded
// as %20 and a literal "+" as %2B.
func (s *Site) SearchURL(text string) string {
	return s.URL("/search?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20"))
}

// APIURL returns the absolute URL of a REST API endpoint under /wiki/rest/api.
func (s *Site) APIURL(endpoint string) string {
	return s.URL("/rest/api/" + strings.TrimLeft(endpoint, "/"))
}
