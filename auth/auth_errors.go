package auth

import interrors "github.com/eventkit/go-event-client/internal/errors"

var (
	InvalidCredentialsErr  = interrors.ErrInvalidCredentials
	ConnectionErr          = interrors.ErrConnection
	BiometricNotEnabledErr = interrors.ErrBiometricNotEnabled
	BiometricFailedErr     = interrors.ErrBiometricFailed
	NoSavedCredentialsErr  = interrors.ErrNoSavedCredentials
	UnauthorizedErr        = interrors.ErrUnauthorized
)

// User-facing messages carried in LoginResult.Error. The UI shows these
// inline; connectivity and rejection are deliberately distinct.
const (
	MsgInvalidCredentials   = "Invalid credentials"
	MsgConnectionError      = "Connection error. Try again."
	MsgBiometricNotEnabled  = "Biometric authentication not enabled"
	MsgBiometricFailed      = "Biometric authentication failed"
	MsgNoSavedCredentials   = "No saved credentials"
	MsgSessionPersistFailed = "Could not save session"
)
