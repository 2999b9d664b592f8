package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Record names. A record key is "<session-id>/<name>".
const (
	CartRecord = "cart-storage"
	UserRecord = "user-storage"
)

// Key returns the storage key of a session record.
func Key(sessionID, record string) string {
	return sessionID + "/" + record
}

// Save encodes v as JSON and stores it under key.
func Save[T any](ctx context.Context, s Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Load reads and decodes the record under key. ok is false when the record
// does not exist. A record that is not valid JSON for T yields ErrCorrupt.
func Load[T any](ctx context.Context, s Store, key string) (v T, ok bool, err error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("load %s: %w", key, err)
	}

	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return v, true, nil
}

// HealthChecker is implemented by stores that can report backend health.
type HealthChecker interface {
	Healthy() bool
}

// Healthy reports the health of s. Stores without a health signal are
// always healthy.
func Healthy(s Store) bool {
	if hc, ok := s.(HealthChecker); ok {
		return hc.Healthy()
	}
	return true
}
