// Package resolve turns a wiki page title into a redirect URL.
//
// A Resolver normalizes the title, consults the resolution cache, and on a
// miss asks the wiki's search API for the best matching page. Found pages
// are cached and redirect to the page itself; titles with no match redirect
// to the wiki's own search results and are never cached.
//
// Concurrent resolutions of the same title share a single lookup.
package resolve
