package keystore

import (
	"crypto/cipher"
	"crypto/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	saltFileName      = ".salt"
	installIDFileName = ".install"
	saltLength        = 16

	// scrypt parameters (interactive profile)
	scryptN = 32768
	scryptR = 8
	scryptP = 1
)

var _ Store = (*FileStore)(nil)

// FileStore is a file-per-key Store sealed with ChaCha20-Poly1305. The
// sealing key is derived from a passphrase and a per-install random salt,
// so files copied to another install do not decrypt. Each value is bound
// to its key name and the install id through the AEAD additional data,
// so files cannot be swapped or renamed to stand in for one another.
type FileStore struct {
	dir       string
	installID string
	aead      cipher.AEAD
	lock      sync.RWMutex
}

// NewFileStore opens (or initialises) the store directory. The salt and
// install id are created on first use and persisted alongside the values.
func NewFileStore(dir, passphrase string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("[NewFileStore] dir is required")
	}
	if passphrase == "" {
		return nil, errors.New("[NewFileStore] passphrase is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] mkdir")
	}

	salt, err := loadOrCreateSalt(filepath.Join(dir, saltFileName))
	if err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] salt")
	}
	installID, err := loadOrCreateInstallID(filepath.Join(dir, installIDFileName))
	if err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] install id")
	}

	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] scrypt")
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] aead")
	}

	return &FileStore{
		dir:       dir,
		installID: installID,
		aead:      aead,
	}, nil
}

func (fs *FileStore) Get(key string) (string, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	data, err := os.ReadFile(fs.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrKeyNotFound
		}
		return "", errors.Wrapf(err, "[FileStore.Get] %s", key)
	}
	if len(data) < fs.aead.NonceSize() {
		return "", errors.Errorf("[FileStore.Get] %s: sealed value too short", key)
	}
	nonce, ciphertext := data[:fs.aead.NonceSize()], data[fs.aead.NonceSize():]
	plaintext, err := fs.aead.Open(nil, nonce, ciphertext, fs.additionalData(key))
	if err != nil {
		return "", errors.Wrapf(err, "[FileStore.Get] %s: open", key)
	}
	return string(plaintext), nil
}

func (fs *FileStore) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	nonce := make([]byte, fs.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return errors.Wrapf(err, "[FileStore.Set] %s: nonce", key)
	}
	sealed := fs.aead.Seal(nonce, nonce, []byte(value), fs.additionalData(key))
	if err := os.WriteFile(fs.path(key), sealed, 0o600); err != nil {
		return errors.Wrapf(err, "[FileStore.Set] %s", key)
	}
	return nil
}

func (fs *FileStore) Delete(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := os.Remove(fs.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "[FileStore.Delete] %s", key)
	}
	return nil
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, key+".sealed")
}

func (fs *FileStore) additionalData(key string) []byte {
	return []byte(fs.installID + ":" + key)
}

func loadOrCreateSalt(path string) ([]byte, error) {
	salt, err := os.ReadFile(path)
	if err == nil && len(salt) == saltLength {
		return salt, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	salt = make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, salt, 0o600); err != nil {
		return nil, err
	}
	return salt, nil
}

func loadOrCreateInstallID(path string) (string, error) {
	id, err := os.ReadFile(path)
	if err == nil && len(id) > 0 {
		return string(id), nil
	}
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}

	newID := uuid.New().String()
	if err := os.WriteFile(path, []byte(newID), 0o600); err != nil {
		return "", err
	}
	return newID, nil
}
