package client

import (
	"html"
	"strings"
)

// EscapeHTML escapes the characters with special meaning in HTML so stored
// user data cannot reflect markup when rendered.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// SanitizeInput trims and escapes a free-text field before it is sent or
// rendered. Defense in depth only; the server validates independently.
func SanitizeInput(s string) string {
	return EscapeHTML(strings.TrimSpace(s))
}
