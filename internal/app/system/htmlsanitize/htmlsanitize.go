// Package htmlsanitize strips unsafe markup from user-supplied announcement
// text before it is stored.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// policy allows common formatting (paragraphs, emphasis, lists, links,
// tables) and drops scripts, event handlers, iframes and javascript: URLs.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("table", "tr", "td", "th", "p", "span")
	return p
}

// Sanitize returns s with disallowed markup removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
