package errors

import (
	"math"
	"regexp"
	"unicode"
)

// ValidateClick checks that a plank-local coordinate lies on the plank.
// Bounds are inclusive: both plank ends are valid drop positions.
func ValidateClick(x, plankLength float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return New(ErrCodeInvalidInput, "coordinate must be a finite number")
	}
	if x < 0 || x > plankLength {
		return New(ErrCodeOutOfBounds, "x=%g outside plank [0, %g]", x, plankLength)
	}
	return nil
}

// ValidateDistance checks that a pivot-relative distance lies within half the
// plank length on either side.
func ValidateDistance(d, halfLength float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return New(ErrCodeInvalidInput, "distance must be a finite number")
	}
	if math.Abs(d) > halfLength {
		return New(ErrCodeOutOfBounds, "distance %g outside plank [-%g, %g]", d, halfLength, halfLength)
	}
	return nil
}

// ValidateWeight checks that a weight is a positive finite number of kilograms.
func ValidateWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return New(ErrCodeInvalidWeight, "weight must be a finite number")
	}
	if w <= 0 {
		return New(ErrCodeInvalidWeight, "weight must be positive, got %g", w)
	}
	return nil
}

// slotRegex matches storage slot names: short, lowercase, filesystem and key safe.
var slotRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateSlot validates a storage slot name. Slots become part of file
// paths, Redis keys and SQL rows, so the rules are conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 64 characters
//   - Lowercase letters, digits, dash and underscore only
func ValidateSlot(slot string) error {
	if slot == "" {
		return New(ErrCodeInvalidSlot, "slot name cannot be empty")
	}
	if len(slot) > 64 {
		return New(ErrCodeInvalidSlot, "slot name too long (max 64 characters)")
	}
	for _, r := range slot {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSlot, "slot name contains invalid control characters")
		}
	}
	if !slotRegex.MatchString(slot) {
		return New(ErrCodeInvalidSlot, "invalid slot name: %q", slot)
	}
	return nil
}
