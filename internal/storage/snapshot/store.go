// Package snapshot provides the durable single-slot storage behind the session transcript.
package snapshot

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no snapshot exists under the key.
var ErrNotFound = errors.New("snapshot not found")

// Store persists opaque snapshot payloads under namespaced keys.
type Store interface {
	// Load returns the payload stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save overwrites the payload stored under key.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the payload stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}
