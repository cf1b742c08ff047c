// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips unsafe markup from free-form authored
// fields before they are stored (document descriptions, tags,
// objectives, question prompts).
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc keeps the formatting tags reasonable for user-generated
	// content while removing scripts and event handlers.
	ugc = bluemonday.UGCPolicy()

	// strict strips all markup, leaving plain text.
	strict = bluemonday.StrictPolicy()
)

// Sanitize cleans a user-supplied HTML fragment, preserving safe
// formatting (bold, links, paragraphs) and removing everything
// executable.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// Strict reduces a user-supplied string to plain text with no markup at
// all. Used for fields that are never rendered as HTML.
func Strict(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
