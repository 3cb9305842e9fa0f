package utils

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	ErrInvalidUserIDFormat = errors.New("invalid userid format, must be exactly 6 digits")
	ErrInvalidEmailFormat  = errors.New("invalid email format")
)

// userIDLength is the fixed length of staff login identifiers.
const userIDLength = 6

// IsNumeric reports whether s consists only of digits. The empty string is
// not numeric.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidateUserID checks the staff login identifier format.
// Returns nil if valid, a specific error otherwise.
func ValidateUserID(userID string) error {
	trimmed := strings.TrimSpace(userID)
	if len(trimmed) != userIDLength || !IsNumeric(trimmed) {
		return ErrInvalidUserIDFormat
	}
	return nil
}

// ValidateEmailFormat checks the email format. The empty string passes;
// whether an empty email is allowed is a business-layer decision.
func ValidateEmailFormat(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return true
	}
	match, _ := regexp.MatchString(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`, trimmed)
	return match
}
