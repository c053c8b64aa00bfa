package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxIDLength bounds segment and load identifiers. Drawing handles are short
// hex strings; cable tags rarely exceed a few dozen characters.
const maxIDLength = 128

// ValidateSegmentID validates a segment identifier.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No surrounding whitespace
//   - Maximum length of 128 characters
func ValidateSegmentID(id string) error {
	return validateID(ErrCodeInvalidSegment, "segment", id)
}

// ValidateLoadID validates a load identifier. Loads may be anonymous, so an
// empty ID is accepted; non-empty IDs follow the segment rules.
func ValidateLoadID(id string) error {
	if id == "" {
		return nil
	}
	return validateID(ErrCodeInvalidLoad, "load", id)
}

func validateID(code Code, kind, id string) error {
	if id == "" {
		return New(code, "%s ID cannot be empty", kind)
	}

	if len(id) > maxIDLength {
		return New(code, "%s ID too long (max %d characters)", kind, maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(code, "%s ID contains invalid control characters", kind)
		}
	}

	if strings.TrimSpace(id) != id {
		return New(code, "%s ID %q has surrounding whitespace", kind, id)
	}

	return nil
}

// ValidatePower validates a load's power demand. Power must be a finite,
// non-negative number; a zero load is legal and contributes nothing.
func ValidatePower(power float64) error {
	if math.IsNaN(power) || math.IsInf(power, 0) {
		return New(ErrCodeInvalidLoad, "power must be finite, got %v", power)
	}
	if power < 0 {
		return New(ErrCodeInvalidLoad, "power cannot be negative, got %v", power)
	}
	return nil
}

// ValidateTolerance validates a proximity tolerance in drawing units.
func ValidateTolerance(tol float64) error {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		return New(ErrCodeInvalidConfig, "tolerance must be a positive number, got %v", tol)
	}
	return nil
}

// ValidateScale validates the moment unit scale factor.
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return New(ErrCodeInvalidConfig, "scale must be a positive number, got %v", scale)
	}
	return nil
}
