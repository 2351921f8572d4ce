package pptx

import "unicode"

// IsFileId returns true if the string is a valid backend file handle
// (starts with a letter or digit, contains only letters, digits, hyphens
// and underscores). Anything else is rejected before it reaches a URL path.
func IsFileId(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return true
}
