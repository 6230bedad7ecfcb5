package enigma

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid machine component. It is returned by every
// constructor before any state is built; a failed constructor never yields
// a partially usable value.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Component names the part that failed ("plugboard", "rotor I", ...).
	Component string

	// Message is a human-readable description.
	Message string
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeDuplicateLetter indicates a letter used more than once.
	ErrCodeDuplicateLetter ConfigErrorCode = "DUPLICATE_LETTER"

	// ErrCodePairCount indicates a plugboard with other than 0 or 10 pairs.
	ErrCodePairCount ConfigErrorCode = "PAIR_COUNT"

	// ErrCodePairLength indicates a pair that is not exactly two characters.
	ErrCodePairLength ConfigErrorCode = "PAIR_LENGTH"

	// ErrCodeInvalidLetter indicates a character outside the alphabet.
	ErrCodeInvalidLetter ConfigErrorCode = "INVALID_LETTER"

	// ErrCodeInvalidWiring indicates a wiring that is not a full permutation.
	ErrCodeInvalidWiring ConfigErrorCode = "INVALID_WIRING"

	// ErrCodeInvalidNotch indicates a notch outside B..Z.
	ErrCodeInvalidNotch ConfigErrorCode = "INVALID_NOTCH"

	// ErrCodeInvalidPosition indicates an initial position outside [0, 26).
	ErrCodeInvalidPosition ConfigErrorCode = "INVALID_POSITION"

	// ErrCodeRotorReuse indicates one rotor configuration in two slots.
	ErrCodeRotorReuse ConfigErrorCode = "ROTOR_REUSE"

	// ErrCodeUnknownTable indicates a rotor or reflector id with no table.
	ErrCodeUnknownTable ConfigErrorCode = "UNKNOWN_TABLE"

	// ErrCodeMissingComponent indicates a nil component passed to NewMachine.
	ErrCodeMissingComponent ConfigErrorCode = "MISSING_COMPONENT"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Component, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newConfigError(code ConfigErrorCode, component, format string, args ...any) *ConfigError {
	return &ConfigError{
		Code:      code,
		Component: component,
		Message:   fmt.Sprintf(format, args...),
	}
}

// FormatError reports input text the machine cannot process. No character of
// the rejected call has been transformed.
type FormatError struct {
	// Position is the rune offset of the first offending character.
	Position int

	// Char is the offending character after upper-casing.
	Char rune
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("FORMAT: character %q at position %d is neither a letter A-Z nor blank", e.Char, e.Position)
}

// IsConfigError returns true if err is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsFormatError returns true if err is or wraps a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// ConfigCode returns the code of a wrapped ConfigError, or "".
func ConfigCode(err error) ConfigErrorCode {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
