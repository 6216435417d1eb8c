// Package persistence serializes the bakery to a versioned JSON blob and
// reconciles offline progress on load. Storage backends live in infra/storage.
package persistence

import (
	"context"
	"errors"
	"sync"
)

// DefaultSaveKey is the slot a single-player bakery is stored under.
const DefaultSaveKey = "biscoito_clicker_save_v2"

// ErrNoSave is returned by a BlobStore when the key holds nothing.
var ErrNoSave = errors.New("no save found")

// BlobStore is a key-value slot for save blobs.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryBlobStore keeps blobs in process. Used by tests and headless scenarios.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

func (m *MemoryBlobStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, ErrNoSave
	}
	return append([]byte(nil), blob...), nil
}

func (m *MemoryBlobStore) Save(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	m.blobs[key] = append([]byte(nil), blob...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBlobStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.blobs, key)
	m.mu.Unlock()
	return nil
}
