package storage

import (
	"context"
	"sync"
)

// MemoryBackend implements the Backend interface with an in-process map.
// Used by tests and by demo runs without a Redis instance. Values are copied
// on both Save and Load so callers never share a byte slice with the backend.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte

	// FailSaves forces every Save to return an error. Tests use it to
	// exercise the persistence-failure path.
	FailSaves error
}

// NewMemoryBackend creates an empty in-memory storage backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		docs: make(map[string][]byte),
	}
}

// Load retrieves a document by key.
func (m *MemoryBackend) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.docs[key]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// Save stores a document under key.
func (m *MemoryBackend) Save(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSaves != nil {
		return m.FailSaves
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.docs[key] = stored
	return nil
}

// Delete removes a document by key.
func (m *MemoryBackend) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs, key)
	return nil
}

// Ping always succeeds for the in-memory backend.
func (m *MemoryBackend) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory backend.
func (m *MemoryBackend) Close() error {
	return nil
}
