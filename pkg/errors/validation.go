package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// cellNameRegex matches cell names: one or more ASCII letters followed by one
// or more digits.
var cellNameRegex = regexp.MustCompile(`^[A-Za-z]+[0-9]+$`)

// IsCellName reports whether name matches the cell-name grammar.
func IsCellName(name string) bool {
	return cellNameRegex.MatchString(name)
}

// NormalizeCellName validates a cell name and returns its upper-cased form,
// which is the only form used for storage and lookup.
func NormalizeCellName(name string) (string, error) {
	if name == "" {
		return "", New(ErrCodeInvalidName, "cell name cannot be empty")
	}
	if !cellNameRegex.MatchString(name) {
		return "", New(ErrCodeInvalidName, "invalid cell name %q", name)
	}
	return strings.ToUpper(name), nil
}

// ValidateID validates a document identifier used as a storage key.
// It rejects identifiers that could escape a storage namespace.
//
// Validation rules:
//   - ID cannot be empty
//   - Maximum length of 128 characters
//   - No control characters
//   - No path separators or traversal sequences
//   - No leading dot
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}

	const maxIDLength = 128
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id contains invalid control characters")
		}
	}

	if strings.ContainsAny(id, `/\`) {
		return New(ErrCodeInvalidInput, "id cannot contain path separators")
	}

	if strings.HasPrefix(id, ".") {
		return New(ErrCodeInvalidInput, "id cannot start with a dot")
	}

	return nil
}
