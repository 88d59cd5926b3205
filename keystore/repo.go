package keystore

import (
	"encoding/json"

	interrors "github.com/eventkit/go-event-client/internal/errors"
	"github.com/pkg/errors"
)

// Well-known keys. The access and refresh tokens are always written and
// cleared together; userId is a convenience cache, not security-sensitive.
const (
	KeyAccessToken      = "accessToken"
	KeyRefreshToken     = "refreshToken"
	KeyUserID           = "userId"
	KeyBiometricEnabled = "biometric_enabled"
	KeyUserCredentials  = "user_credentials"
)

// ErrKeyNotFound is returned by Get when the key has never been written
// or has been deleted.
var ErrKeyNotFound = interrors.ErrKeyNotFound

// Store is an encrypted key-value persistence primitive scoped to the
// device/app install. Implementations must survive process restarts.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// TokenPair holds the bearer token pair issued by the backend. Both
// tokens are opaque to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Credentials is the opt-in saved login record replayed after a
// successful biometric unlock.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SaveTokenPair persists a complete identity record: both tokens and the
// cached user id.
func SaveTokenPair(s Store, userID string, pair TokenPair) error {
	if err := UpdateTokenPair(s, pair); err != nil {
		return err
	}
	if err := s.Set(KeyUserID, userID); err != nil {
		return errors.Wrap(err, "[SaveTokenPair] userId")
	}
	return nil
}

// UpdateTokenPair replaces the stored token pair, leaving the cached
// user id untouched. Used on refresh rotation.
func UpdateTokenPair(s Store, pair TokenPair) error {
	if err := s.Set(KeyAccessToken, pair.AccessToken); err != nil {
		return errors.Wrap(err, "[UpdateTokenPair] accessToken")
	}
	if err := s.Set(KeyRefreshToken, pair.RefreshToken); err != nil {
		return errors.Wrap(err, "[UpdateTokenPair] refreshToken")
	}
	return nil
}

// ClearTokens erases all three identity keys. Missing keys are not an
// error; the first storage failure is reported after attempting all
// deletes.
func ClearTokens(s Store) error {
	var firstErr error
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUserID} {
		if err := s.Delete(key); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "[ClearTokens] %s", key)
		}
	}
	return firstErr
}

// SaveCredentials persists the saved login record as JSON.
func SaveCredentials(s Store, creds Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return errors.Wrap(err, "[SaveCredentials] marshal")
	}
	if err := s.Set(KeyUserCredentials, string(data)); err != nil {
		return errors.Wrap(err, "[SaveCredentials] set")
	}
	return nil
}

// SavedCredentials loads the saved login record. Returns (nil, nil) when
// no record exists; unreadable records are treated the same (fail-closed).
func SavedCredentials(s Store) (*Credentials, error) {
	raw, err := s.Get(KeyUserCredentials)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "[SavedCredentials] get")
	}
	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, nil
	}
	return &creds, nil
}
