// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes user-typed values before lookup or storage.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email trims and lowercases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses internal whitespace, preserving case.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Identifier trims a login identifier without changing case; usernames
// match exactly while emails are compared case-insensitively by the store.
func Identifier(s string) string {
	return strings.TrimSpace(s)
}

// HospitalID trims a hospital patient id; ids are case-sensitive.
func HospitalID(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and lowercases a role string.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SortKey folds case and diacritics for display ordering.
func SortKey(s string) string {
	return text.Fold(Name(s))
}
