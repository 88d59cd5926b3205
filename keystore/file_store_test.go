package keystore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eventkit/go-event-client/keystore"
	"github.com/stretchr/testify/require"
)

const testPassphrase = "correct-horse-battery-staple"

func newTestStore(t *testing.T) *keystore.FileStore {
	t.Helper()

	store, err := keystore.NewFileStore(t.TempDir(), testPassphrase)
	require.NoError(t, err)
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(keystore.KeyAccessToken, "T1"))

	value, err := store.Get(keystore.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "T1", value)
}

func TestFileStoreMissingKey(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(keystore.KeyRefreshToken)
	require.ErrorIs(t, err, keystore.ErrKeyNotFound)
}

func TestFileStoreOverwrite(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(keystore.KeyRefreshToken, "R1"))
	require.NoError(t, store.Set(keystore.KeyRefreshToken, "R2"))

	value, err := store.Get(keystore.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "R2", value)
}

func TestFileStoreDelete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(keystore.KeyUserID, "1"))
	require.NoError(t, store.Delete(keystore.KeyUserID))

	_, err := store.Get(keystore.KeyUserID)
	require.ErrorIs(t, err, keystore.ErrKeyNotFound)

	// Deleting a missing key is not an error
	require.NoError(t, store.Delete(keystore.KeyUserID))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := keystore.NewFileStore(dir, testPassphrase)
	require.NoError(t, err)
	require.NoError(t, store.Set(keystore.KeyAccessToken, "T1"))

	reopened, err := keystore.NewFileStore(dir, testPassphrase)
	require.NoError(t, err)

	value, err := reopened.Get(keystore.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "T1", value)
}

func TestFileStoreRejectsTamperedValue(t *testing.T) {
	dir := t.TempDir()

	store, err := keystore.NewFileStore(dir, testPassphrase)
	require.NoError(t, err)
	require.NoError(t, store.Set(keystore.KeyAccessToken, "T1"))

	path := filepath.Join(dir, keystore.KeyAccessToken+".sealed")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = store.Get(keystore.KeyAccessToken)
	require.Error(t, err)
}

func TestFileStoreRejectsSwappedKeyFiles(t *testing.T) {
	dir := t.TempDir()

	store, err := keystore.NewFileStore(dir, testPassphrase)
	require.NoError(t, err)
	require.NoError(t, store.Set(keystore.KeyAccessToken, "T1"))

	// A sealed value renamed to stand in for another key must not open.
	src := filepath.Join(dir, keystore.KeyAccessToken+".sealed")
	dst := filepath.Join(dir, keystore.KeyRefreshToken+".sealed")
	require.NoError(t, os.Rename(src, dst))

	_, err = store.Get(keystore.KeyRefreshToken)
	require.Error(t, err)
	require.NotErrorIs(t, err, keystore.ErrKeyNotFound)
}

func TestFileStoreWrongPassphrase(t *testing.T) {
	dir := t.TempDir()

	store, err := keystore.NewFileStore(dir, testPassphrase)
	require.NoError(t, err)
	require.NoError(t, store.Set(keystore.KeyAccessToken, "T1"))

	other, err := keystore.NewFileStore(dir, "wrong-passphrase")
	require.NoError(t, err)

	_, err = other.Get(keystore.KeyAccessToken)
	require.Error(t, err)
}

func TestTokenPairHelpers(t *testing.T) {
	store := newTestStore(t)

	err := keystore.SaveTokenPair(store, "1", keystore.TokenPair{AccessToken: "T1", RefreshToken: "R1"})
	require.NoError(t, err)

	access, err := store.Get(keystore.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "T1", access)

	userID, err := store.Get(keystore.KeyUserID)
	require.NoError(t, err)
	require.Equal(t, "1", userID)

	// Rotation replaces both tokens but keeps the cached user id
	err = keystore.UpdateTokenPair(store, keystore.TokenPair{AccessToken: "T2", RefreshToken: "R2"})
	require.NoError(t, err)

	refresh, err := store.Get(keystore.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "R2", refresh)

	userID, err = store.Get(keystore.KeyUserID)
	require.NoError(t, err)
	require.Equal(t, "1", userID)

	require.NoError(t, keystore.ClearTokens(store))
	for _, key := range []string{keystore.KeyAccessToken, keystore.KeyRefreshToken, keystore.KeyUserID} {
		_, err := store.Get(key)
		require.ErrorIs(t, err, keystore.ErrKeyNotFound)
	}
}

func TestSavedCredentials(t *testing.T) {
	store := newTestStore(t)

	creds, err := keystore.SavedCredentials(store)
	require.NoError(t, err)
	require.Nil(t, creds)

	err = keystore.SaveCredentials(store, keystore.Credentials{Email: "a@b.com", Password: "pw1"})
	require.NoError(t, err)

	creds, err = keystore.SavedCredentials(store)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", creds.Email)
	require.Equal(t, "pw1", creds.Password)
}
