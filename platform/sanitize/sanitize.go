// Package sanitize provides input sanitization for request fields.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// controlCharRegex matches ASCII control characters, including DEL.
	controlCharRegex = regexp.MustCompile(`[\x00-\x1F\x7F]`)
)

// Input removes control characters and surrounding whitespace from a
// user-provided string. Use for URLs, emails and other single-line fields.
func Input(s string) string {
	return strings.TrimSpace(controlCharRegex.ReplaceAllString(s, ""))
}
