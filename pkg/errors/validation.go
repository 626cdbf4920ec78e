package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxKeyLength bounds category labels; they end up in SVG attributes and
// cache keys.
const maxKeyLength = 256

// ValidateKey validates a category key (series label).
//
// The validation rules are intentionally conservative:
//   - No empty keys
//   - No control characters or null bytes
//   - No leading or trailing whitespace
//   - Maximum length of 256 characters
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodePrecondition, "series key cannot be empty")
	}

	if len(key) > maxKeyLength {
		return New(ErrCodePrecondition, "series key too long (max %d characters)", maxKeyLength)
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodePrecondition, "series key %q contains invalid control characters", key)
		}
	}

	if strings.TrimSpace(key) != key {
		return New(ErrCodePrecondition, "series key %q has surrounding whitespace", key)
	}

	return nil
}

// ValidateCount validates a single observation value.
// Counts must be finite and non-negative.
func ValidateCount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodePrecondition, "value %v is not a finite number", v)
	}
	if v < 0 {
		return New(ErrCodePrecondition, "value %v is negative", v)
	}
	return nil
}

// ValidatePath validates an input or output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}
