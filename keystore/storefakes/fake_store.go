package storefakes

import (
	"sync"

	"github.com/eventkit/go-event-client/keystore"
	"github.com/pkg/errors"
)

var _ keystore.Store = (*FakeStore)(nil)

// FakeStore is an in-memory Store with per-operation failure injection
// for exercising fail-closed paths.
type FakeStore struct {
	values map[string]string
	lock   sync.RWMutex

	GetErr    error
	SetErr    error
	DeleteErr error

	SetCallCount int
	GetCallCount int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		values: make(map[string]string),
	}
}

func (fs *FakeStore) Get(key string) (string, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.GetCallCount++
	if fs.GetErr != nil {
		return "", fs.GetErr
	}
	value, ok := fs.values[key]
	if !ok {
		return "", errors.Wrap(keystore.ErrKeyNotFound, key)
	}
	return value, nil
}

func (fs *FakeStore) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.SetCallCount++
	if fs.SetErr != nil {
		return fs.SetErr
	}
	fs.values[key] = value
	return nil
}

func (fs *FakeStore) Delete(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.DeleteErr != nil {
		return fs.DeleteErr
	}
	delete(fs.values, key)
	return nil
}

// Has reports whether the key is currently stored.
func (fs *FakeStore) Has(key string) bool {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	_, ok := fs.values[key]
	return ok
}
