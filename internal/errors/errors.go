package errors

import (
	"errors"
	"fmt"
)

// Common error types for the event client
var (
	// Transport errors
	ErrConnection     = errors.New("connection error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired")
	ErrServer         = errors.New("server error")

	// Authentication errors
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrBiometricNotEnabled  = errors.New("biometric authentication not enabled")
	ErrBiometricFailed      = errors.New("biometric authentication failed")
	ErrBiometricUnsupported = errors.New("biometric authentication not supported")
	ErrNoSavedCredentials   = errors.New("no saved credentials")

	// Storage errors
	ErrKeyNotFound = errors.New("key not found")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrClosed   = errors.New("closed")
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
