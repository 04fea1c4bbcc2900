// Package domain contains the core types shared by all modules.
package domain

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxTextLength is the column width of names, emails and titles.
const MaxTextLength = 255

// TooLong reports whether s does not fit a MaxTextLength column.
func TooLong(s string) bool {
	return utf8.RuneCountInString(s) > MaxTextLength
}

// NormalizeName trims and NFC-normalizes a display name so that names typed
// with composed and decomposed accents compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
