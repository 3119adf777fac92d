package middleware

import (
	"errors"
	"unicode/utf8"
)

// ValidateVersionID validates a version ID path parameter.
func ValidateVersionID(id string) error {
	if len(id) == 0 {
		return errors.New("version ID cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("version ID exceeds maximum length")
	}
	if !utf8.ValidString(id) {
		return errors.New("version ID must be valid UTF-8")
	}
	return nil
}

// ValidateUserID validates a session user ID path parameter.
func ValidateUserID(id string) error {
	if len(id) == 0 {
		return errors.New("user ID cannot be empty")
	}
	if len(id) > 512 {
		return errors.New("user ID exceeds maximum length")
	}
	if !utf8.ValidString(id) {
		return errors.New("user ID must be valid UTF-8")
	}
	return nil
}
