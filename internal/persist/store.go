// Package persist provides key-value storage for the state that survives a
// visitor reload.
package persist

import (
	"context"
	"errors"
	"fmt"
)

// Store errors.
var (
	ErrNotFound   = errors.New("record not found")
	ErrInvalidKey = errors.New("invalid record key")
	ErrCorrupt    = errors.New("record cannot be decoded")

	ErrUnknownBackend = errors.New("unknown persistence backend")
)

// Store defines the interface for record storage operations. Values are
// opaque bytes; the store never interprets them.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
}

// Backend names accepted by configuration.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
)

// Open returns the backend named by backend. The file backend is wrapped in
// a circuit breaker; the memory backend cannot fail and is returned as is.
func Open(backend, dir string, breaker BreakerConfig) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		fs, err := NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		return NewBreakerStore("persist-"+backend, fs, breaker), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func checkKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}
