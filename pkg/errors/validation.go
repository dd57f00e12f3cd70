package errors

import (
	"strings"
	"unicode"
)

// ValidateColumnName validates a configured column name.
//
// Column names are matched against trimmed header cells, so a name with
// surrounding whitespace could never match and is rejected here.
func ValidateColumnName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidColumn, "column name cannot be empty")
	}
	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidColumn, "column name %q has surrounding whitespace", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidColumn, "column name contains invalid control characters")
		}
	}
	return nil
}

// ValidateSheetName validates a workbook sheet name.
// Spreadsheet applications limit names to 31 characters and forbid a few
// characters that are used in cell references.
func ValidateSheetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "sheet name cannot be empty")
	}
	if len([]rune(name)) > 31 {
		return New(ErrCodeInvalidInput, "sheet name too long (max 31 characters)")
	}
	if strings.ContainsAny(name, `:\/?*[]`) {
		return New(ErrCodeInvalidInput, "sheet name %q contains invalid characters", name)
	}
	return nil
}

// ValidatePath validates a local file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateIdentifier validates a query identifier supplied by a user.
// Identifiers are opaque; only emptiness after trimming and control
// characters are rejected.
func ValidateIdentifier(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}
	for _, r := range id {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "identifier contains invalid control characters")
		}
	}
	return nil
}
