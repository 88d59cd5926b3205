package config

import (
	"os"
	"path/filepath"
)

type StorageConfig interface {
	GetKeystoreDir() string
	GetKeystorePassphrase() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetKeystoreDir() string {
	if dir := GetEnv("KEYSTORE_DIR", ""); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".eventclient"
	}
	return filepath.Join(home, ".eventclient")
}

// GetKeystorePassphrase returns the passphrase used to seal the keystore.
// On a device this would come from the platform keychain; the host app
// is expected to set it before constructing the client.
func (Storage) GetKeystorePassphrase() string {
	return GetEnv("KEYSTORE_PASSPHRASE", "")
}
