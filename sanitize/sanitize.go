// Package sanitize strips unsafe markup from author-submitted rich text.
// It is the only guard between admin-authored HTML and public rendering, so
// it must run on every path that serves stored content to readers.
package sanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var policy = newPolicy()

// newPolicy builds the allow-list: the formatting tags the rich-text editor
// produces plus links and images. Everything else is stripped, not escaped.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br",
		"strong", "em", "u", "s",
		"h2", "h3", "h4",
		"ul", "ol", "li",
		"blockquote",
		"a", "img",
	)
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowStandardURLs()
	p.AllowImages()

	return p
}

// HTML returns the input restricted to the allow-list of tags and attributes.
func HTML(input string) string {
	return policy.Sanitize(input)
}
