package files

import (
	"regexp"

	"github.com/filedrop/gateway/internal/errs"
)

var (
	// Unicode spaces, line separators and BOM count as whitespace too.
	whitespaceRun  = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	disallowedChar = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
)

// SanitizeFilename replaces whitespace runs with "_" and drops everything
// outside [A-Za-z0-9_.-]. Applying it twice yields the same result.
func SanitizeFilename(name string) string {
	name = whitespaceRun.ReplaceAllString(name, "_")
	return disallowedChar.ReplaceAllString(name, "")
}

// Key derives the storage key for filename under folder. Identical sanitized
// names map to the same key; the later upload overwrites the earlier one.
func Key(folder, filename string) (string, error) {
	safe := SanitizeFilename(filename)
	if safe == "" {
		return "", errs.InvalidInput("filename must contain at least one letter, digit, '.', '_' or '-'")
	}
	return folder + safe, nil
}
