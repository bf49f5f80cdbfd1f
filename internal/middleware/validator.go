package middleware

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input validation and sanitization utilities

const (
	MaxNoteLength  = 200
	MaxValueLength = 64
)

var operatorPattern = regexp.MustCompile(`^[\p{L}\p{N}_.-]{1,64}$`)

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// ValidateOperator checks submitter names. They end up inside grid cells
// after an "@", so whitespace and brackets are refused.
func ValidateOperator(name string) error {
	if name == "" {
		return nil
	}
	if !operatorPattern.MatchString(name) {
		return fmt.Errorf("invalid operator name (letters, digits, dot, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateNote bounds the free-text note.
func ValidateNote(note string) error {
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return fmt.Errorf("note too long (max %d characters)", MaxNoteLength)
	}
	return nil
}

// ValidateValue bounds the raw reading text.
func ValidateValue(value string) error {
	if utf8.RuneCountInString(value) > MaxValueLength {
		return fmt.Errorf("value too long (max %d characters)", MaxValueLength)
	}
	return nil
}

// ValidateRequired rejects empty fields.
func ValidateRequired(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	return nil
}
