// Package search queries a Confluence-style content search API for the page
// whose title best matches a requested title.
//
// It provides the CQL query builder (BuildQuery, Filter), the authenticated
// HTTP client (Client) and the credential variants it accepts: an explicit
// user/token pair (BasicAuth) or ambient discovery from a netrc file
// (NetrcAuth).
package search
