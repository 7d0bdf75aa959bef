// Package validation normalizes raw user input before it reaches a provider.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/yakguide/interfaces"
	"golang.org/x/text/unicode/norm"
)

// MaxInputRunes bounds every free-text field so one value fits comfortably in
// a query string. Anything shorter and non-blank is accepted.
const MaxInputRunes = 1024

var (
	// ErrMissingInput is returned for empty or whitespace-only input
	ErrMissingInput = errors.New("input cannot be empty")
	// ErrInputTooLong is returned when input exceeds MaxInputRunes
	ErrInputTooLong = errors.New("input too long")
)

// Compile-time check to ensure InputValidatorImpl implements InputValidator
var _ interfaces.InputValidator = (*InputValidatorImpl)(nil)

// InputValidatorImpl implements the interfaces.InputValidator interface
type InputValidatorImpl struct{}

// NewInputValidator creates a new input validator
func NewInputValidator() interfaces.InputValidator {
	return &InputValidatorImpl{}
}

// NormalizeInput cleans raw text without rejecting it: invalid UTF-8 becomes
// U+FFFD, Hangul typed as decomposed jamo is folded to NFC, control characters
// count as whitespace and whitespace runs collapse to a single space. Only
// blank and oversized input fail.
func (v *InputValidatorImpl) NormalizeInput(raw string) (string, error) {
	cleaned := norm.NFC.String(strings.ToValidUTF8(raw, "\uFFFD"))

	input := strings.Join(strings.FieldsFunc(cleaned, isSeparator), " ")
	if input == "" {
		return "", ErrMissingInput
	}

	if n := utf8.RuneCountInString(input); n > MaxInputRunes {
		return "", fmt.Errorf("%w: %d characters, maximum %d", ErrInputTooLong, n, MaxInputRunes)
	}

	return input, nil
}

// IsValidationError reports whether err was produced by input validation
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingInput) || errors.Is(err, ErrInputTooLong)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}
