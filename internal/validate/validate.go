// Package validate checks form input before it reaches the network. Rules and
// messages match what the backend enforces, so a passing form should only be
// rejected for semantic reasons (duplicate account, bad credentials).
package validate

import (
	"regexp"
	"strings"

	"github.com/newsroomhq/newsroom/internal/errors"
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe    = regexp.MustCompile(`^\+\d{7,15}$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 _]{2,}$`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	digitRe    = regexp.MustCompile(`\d`)
)

// Email validates an email address
func Email(s string) error {
	if !emailRe.MatchString(s) {
		return errors.New(errors.ErrCodeInvalidEmail, "please enter a valid email")
	}
	return nil
}

// Password requires at least 8 characters with upper, lower and a digit
func Password(s string) error {
	if len(s) < 8 || !lowerRe.MatchString(s) || !upperRe.MatchString(s) || !digitRe.MatchString(s) {
		return errors.New(errors.ErrCodeInvalidPassword,
			"password must be at least 8 characters and include uppercase, lowercase and a digit")
	}
	return nil
}

// Phone validates an optional international phone number; empty is allowed
func Phone(s string) error {
	if s == "" {
		return nil
	}
	if !phoneRe.MatchString(s) {
		return errors.New(errors.ErrCodeInvalidPhone, "phone must start with + and contain 7-15 digits")
	}
	return nil
}

// Username requires 3+ characters starting with a letter
func Username(s string) error {
	if !usernameRe.MatchString(s) {
		return errors.New(errors.ErrCodeInvalidUsername,
			"username must be at least 3 characters, start with a letter, and contain letters/numbers/_/space")
	}
	return nil
}

// NonEmpty rejects blank required fields
func NonEmpty(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New(errors.ErrCodeEmptyField, field+" cannot be empty")
	}
	return nil
}
