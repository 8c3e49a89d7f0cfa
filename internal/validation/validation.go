// Package validation holds the client-side form checks: email and password
// rules for the auth forms and struct validation for the interview form.
// Nothing here is re-checked by the backend.
package validation

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

// PasswordMinLength is the minimum accepted password length.
const PasswordMinLength = 8

// validation errors
var (
	ErrInvalidEmail        = errors.New("Please enter a valid email address")
	ErrEnterPassword       = errors.New("Please enter a password")
	ErrPasswordTooShort    = errors.New("Password must be at least 8 characters long")
	ErrPasswordNoUppercase = errors.New("Password must contain at least one uppercase letter")
	ErrPasswordNoLowercase = errors.New("Password must contain at least one lowercase letter")
	ErrPasswordNoNumber    = errors.New("Password must contain at least one number")
	ErrPasswordNoSpecial   = errors.New("Password must contain at least one special character")
	ErrPasswordsDontMatch  = errors.New("Passwords do not match")
)

var (
	emailRe     = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)
	uppercaseRe = regexp.MustCompile(`[A-Z]`)
	lowercaseRe = regexp.MustCompile(`[a-z]`)
	numberRe    = regexp.MustCompile(`[0-9]`)
	specialRe   = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
)

// ValidateEmailInput returns nil for a local@domain.tld shaped address
// and ErrInvalidEmail otherwise.
func ValidateEmailInput(email string) error {
	if !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePasswordInput checks the password rules in order and returns the
// first one that fails. nil means the password is acceptable.
func ValidatePasswordInput(password string) error {
	switch {
	case password == "":
		return ErrEnterPassword
	case utf8.RuneCountInString(password) < PasswordMinLength:
		return ErrPasswordTooShort
	case !uppercaseRe.MatchString(password):
		return ErrPasswordNoUppercase
	case !lowercaseRe.MatchString(password):
		return ErrPasswordNoLowercase
	case !numberRe.MatchString(password):
		return ErrPasswordNoNumber
	case !specialRe.MatchString(password):
		return ErrPasswordNoSpecial
	}
	return nil
}

// ValidatePasswordConfirmation checks the register form's repeat-password field.
func ValidatePasswordConfirmation(password, confirm string) error {
	if password != confirm {
		return ErrPasswordsDontMatch
	}
	return nil
}
