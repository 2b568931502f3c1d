package search

import (
	"fmt"
	"strings"
)

// DefaultContentType is the content type results are pinned to.
const DefaultContentType = "page"

// Filter pins a search to a fixed space and content type.
type Filter struct {
	Space string
	Type  string
}

// NewFilter returns a Filter for pages in space.
func NewFilter(space string) Filter {
	return Filter{Space: space, Type: DefaultContentType}
}

// BuildQuery sanitizes a title for embedding in a CQL string literal.
//
// Double quotes delimit CQL strings and are removed. Backslashes are removed
// too: CQL treats them as escapes, so a trailing one would swallow the
// closing quote.
func BuildQuery(title string) string {
	return strings.NewReplacer(`"`, "", `\`, "").Replace(title)
}

// CQL returns the full filter expression for title.
func (f Filter) CQL(title string) string {
	typ := f.Type
	if typ == "" {
		typ = DefaultContentType
	}
	return fmt.Sprintf(`space = "%s" and type = %s and title ~ "%s"`,
		BuildQuery(f.Space), typ, BuildQuery(title))
}
