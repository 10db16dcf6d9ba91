package errors

import (
	"errors"
	"fmt"
)

// Common error types for the student desk front-end
var (
	// Credential errors
	ErrNoCredential        = errors.New("no stored credential")
	ErrMalformedCredential = errors.New("malformed credential")
	ErrSessionExpired      = errors.New("session expired")

	// Remote API errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrUnexpectedStatus   = errors.New("unexpected status")

	// Form errors
	ErrInvalidForm = errors.New("invalid form")

	// General errors
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsSessionError reports whether err should end the current session.
// Decode failures, expiry and API rejections are all recovered the same way.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrNoCredential) ||
		errors.Is(err, ErrMalformedCredential) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrUnauthorized)
}
