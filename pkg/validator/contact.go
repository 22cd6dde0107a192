// Package validator provides contact-field validation for promoter and
// party records. Phone numbers are normalized to digits with an optional
// leading plus before validation.
package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyValue indicates the input was empty
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrInvalidEmail indicates the email address is malformed
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidPhone indicates the phone number is malformed
	ErrInvalidPhone = errors.New("phone number must be 7 to 15 digits, optionally prefixed with +")
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?\d{7,15}$`)
)

// ContactValidator validates contact fields on inbound payloads
type ContactValidator struct{}

// NewContactValidator creates a new contact validator instance
func NewContactValidator() *ContactValidator {
	return &ContactValidator{}
}

// ValidateEmail validates an email address and returns it lowercased
func (v *ContactValidator) ValidateEmail(email string) (string, error) {
	if email == "" {
		return "", ErrEmptyValue
	}

	normalized := strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(normalized) {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// ValidatePhone validates an international phone number and returns it
// with separators stripped
func (v *ContactValidator) ValidatePhone(phone string) (string, error) {
	if phone == "" {
		return "", ErrEmptyValue
	}

	sanitized := v.SanitizePhone(phone)
	if !phoneRegex.MatchString(sanitized) {
		return "", ErrInvalidPhone
	}
	return sanitized, nil
}

// SanitizePhone removes common separators from a phone number
func (v *ContactValidator) SanitizePhone(phone string) string {
	for _, sep := range []string{" ", "-", "(", ")", "."} {
		phone = strings.ReplaceAll(phone, sep, "")
	}
	return phone
}

// IsValidEmail is a convenience method that returns true if the email
// is valid
func (v *ContactValidator) IsValidEmail(email string) bool {
	_, err := v.ValidateEmail(email)
	return err == nil
}

// IsValidPhone is a convenience method that returns true if the phone
// number is valid
func (v *ContactValidator) IsValidPhone(phone string) bool {
	_, err := v.ValidatePhone(phone)
	return err == nil
}
