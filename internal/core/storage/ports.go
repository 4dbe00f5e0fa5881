package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no document exists under the requested key.
// Callers use it to tell "no data yet" apart from a broken backend.
var ErrNotFound = errors.New("document not found")

// Backend defines the durable document storage interface following hexagonal
// architecture. This is a port that can be implemented by different providers
// (Redis, in-memory, browser local storage in the original UI).
type Backend interface {
	// Load retrieves the document stored under key.
	// Returns ErrNotFound when the key has never been written.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores the document under key, replacing any previous value.
	// Documents never expire; they live until overwritten or deleted.
	Save(ctx context.Context, key string, value []byte) error

	// Delete removes the document stored under key.
	Delete(ctx context.Context, key string) error

	// Ping checks if the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close closes the backend connection.
	Close() error
}
