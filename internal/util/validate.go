package util

import (
	"fmt"
	"regexp"
	"strings"
)

const maxActionIDLength = 128

// validActionIDChars matches alphanumerics and the separators producers use
// in action ids.
var validActionIDChars = regexp.MustCompile(`^[a-zA-Z0-9._:\-]+$`)

// ValidateActionID checks that an action id is usable as a store key and
// as a shadow path segment:
//   - Between 1 and 128 characters
//   - Only a-z, A-Z, 0-9, periods, underscores, colons and hyphens
//   - Not "." or ".."
func ValidateActionID(id string) error {
	if id == "" {
		return fmt.Errorf("action id must not be empty")
	}
	if len(id) > maxActionIDLength {
		return fmt.Errorf("action id must be at most %d characters, got %d", maxActionIDLength, len(id))
	}
	if !validActionIDChars.MatchString(id) {
		return fmt.Errorf("action id %q contains invalid characters (only a-z, A-Z, 0-9, '.', '_', ':' and '-' are allowed)", id)
	}
	if id == "." || id == ".." {
		return fmt.Errorf("action id %q is reserved", id)
	}
	return nil
}

// NormalizeKey trims and lowercases a config key, action type or similar
// case-insensitive name before lookup.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
