package utils

import (
	"regexp"
	"strings"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// StripHTMLTags replaces HTML-like tags with spaces.
// Naver search responses embed <b>...</b> markers around matched keywords.
func StripHTMLTags(value string) string {
	return htmlTagPattern.ReplaceAllString(value, " ")
}

// NormalizeWhitespace collapses whitespace runs to single spaces and trims.
func NormalizeWhitespace(value string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(value, " "))
}

// ToPlainText strips tags then normalizes whitespace.
// Applied to provider-supplied title/address/category fields.
func ToPlainText(value string) string {
	return NormalizeWhitespace(StripHTMLTags(value))
}

// SanitizeSearchKeyword normalizes a user-supplied search keyword.
func SanitizeSearchKeyword(value string) string {
	return NormalizeWhitespace(value)
}
