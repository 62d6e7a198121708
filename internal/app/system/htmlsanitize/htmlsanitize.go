// Package htmlsanitize strips dangerous markup from user-authored HTML
// before it is stored (task notes, notice bodies).
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc allows basic formatting: links, lists, emphasis, headings.
	ugc = bluemonday.UGCPolicy()

	// strict strips all markup, leaving plain text.
	strict = bluemonday.StrictPolicy()
)

// Sanitize returns s with anything outside the user-generated-content
// policy removed. Safe to call with untrusted input.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// PlainText strips all markup and collapses surrounding whitespace.
func PlainText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
