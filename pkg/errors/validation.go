package errors

import (
	"strings"
	"unicode"
)

// maxEntryNameLength bounds archive entry names read from manifests.
const maxEntryNameLength = 512

// ValidateEntryName validates an archive entry name taken from document data
// (manifest, artboard paths) before it is looked up in the container.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No absolute paths
//   - No path traversal sequences (..)
//   - No backslashes
func ValidateEntryName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "entry name cannot be empty")
	}

	if len(name) > maxEntryNameLength {
		return New(ErrCodeInvalidPath, "entry name too long (max %d characters)", maxEntryNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "entry name contains invalid control characters")
		}
	}

	if strings.HasPrefix(name, "/") {
		return New(ErrCodeInvalidPath, "entry name must be relative (cannot start with /)")
	}

	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "entry name cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(name, "\\") {
		return New(ErrCodeInvalidPath, "entry name cannot contain backslashes")
	}

	return nil
}

// ValidateFormatVersion checks a declared document format version against the
// minimum the converter understands.
func ValidateFormatVersion(version, minimum int) error {
	if version < minimum {
		return New(ErrCodeUnsupportedVersion,
			"document format version %d is below the minimum supported version %d", version, minimum)
	}
	return nil
}
