package errors

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseFloatPair parses a "W:H" string into two floats.
// Exactly one colon is required; anything else is an INVALID_CONFIG error.
func ParseFloatPair(name, s string) (float64, float64, error) {
	a, b, err := splitPair(name, s)
	if err != nil {
		return 0, 0, err
	}
	x, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return 0, 0, Wrap(ErrCodeInvalidConfig, err, "invalid %s: %q", name, s)
	}
	y, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return 0, 0, Wrap(ErrCodeInvalidConfig, err, "invalid %s: %q", name, s)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, 0, New(ErrCodeInvalidConfig, "invalid %s: %q (values must be finite)", name, s)
	}
	return x, y, nil
}

// ParseOptionalUintPair parses a "W:H" string where either side may be "-1"
// to mean "derive later". A derived side is returned as nil.
func ParseOptionalUintPair(name, s string) (*uint32, *uint32, error) {
	a, b, err := splitPair(name, s)
	if err != nil {
		return nil, nil, err
	}
	x, err := parseOptionalUint(name, s, a)
	if err != nil {
		return nil, nil, err
	}
	y, err := parseOptionalUint(name, s, b)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func splitPair(name, s string) (string, string, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return "", "", New(ErrCodeInvalidConfig, "invalid %s: %q (expected W:H)", name, s)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

func parseOptionalUint(name, whole, part string) (*uint32, error) {
	if part == "-1" {
		return nil, nil
	}
	v, err := strconv.ParseUint(part, 10, 32)
	if err != nil {
		return nil, Wrap(ErrCodeInvalidConfig, err, "invalid %s: %q", name, whole)
	}
	u := uint32(v)
	return &u, nil
}

// ValidateUnitInterval checks that v lies in [0, 1].
func ValidateUnitInterval(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be within [0, 1], got %v", name, v)
	}
	return nil
}

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
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
