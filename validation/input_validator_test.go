package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeInput(t *testing.T) {
	validator := NewInputValidator()

	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  error
	}{
		{"plain name", "타이레놀", "타이레놀", nil},
		{"trims surrounding whitespace", "  Tylenol\t", "Tylenol", nil},
		{"keeps inner spaces", "서울 강남구 역삼동", "서울 강남구 역삼동", nil},
		{"collapses whitespace runs", "서울시 강남구" + strings.Repeat(" ", 11) + "테헤란로 1", "서울시 강남구 테헤란로 1", nil},
		{"collapses tabs and newlines", "123 Main St\n\tApt 4", "123 Main St Apt 4", nil},
		{"long digit run", "Room 1000000000000, Tower B", "Room 1000000000000, Tower B", nil},
		{"repeated letters", "aaaaaaaaaaaaaaa", "aaaaaaaaaaaaaaa", nil},
		{"control character becomes space", "Tyle\x00nol", "Tyle nol", nil},
		{"invalid utf8 replaced", "Tylenol\xff", "Tylenol\uFFFD", nil},
		{"long address", strings.Repeat("가나", 55), strings.Repeat("가나", 55), nil},
		{"exactly at limit", strings.Repeat("ab", MaxInputRunes/2), strings.Repeat("ab", MaxInputRunes/2), nil},
		{"empty", "", "", ErrMissingInput},
		{"spaces only", "     ", "", ErrMissingInput},
		{"tabs and newlines", "\t\n \r\n", "", ErrMissingInput},
		{"ideographic space", "\u3000", "", ErrMissingInput},
		{"control characters only", "\x00\x01", "", ErrMissingInput},
		{"over limit", strings.Repeat("a", MaxInputRunes+1), "", ErrInputTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validator.NormalizeInput(tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				if !IsValidationError(err) {
					t.Errorf("Expected %v to be classified as a validation error", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNormalizeInputComposesHangul(t *testing.T) {
	validator := NewInputValidator()

	// "약국" spelled with conjoining jamo
	decomposed := "\u110B\u1163\u11A8\u1100\u116E\u11A8"

	got, err := validator.NormalizeInput(decomposed)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != "약국" {
		t.Errorf("Expected composed %q, got %q", "약국", got)
	}
}

func TestIsValidationError(t *testing.T) {
	if IsValidationError(errors.New("connection refused")) {
		t.Error("Unrelated errors should not be validation errors")
	}
	if IsValidationError(nil) {
		t.Error("nil should not be a validation error")
	}
}
