// Package wiki holds the page descriptor returned by the wiki search API and
// the URL builder that turns relative wiki paths into absolute redirect
// targets rooted at a configured site.
package wiki
