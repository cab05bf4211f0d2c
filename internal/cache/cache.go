// Package cache is the local key-value cache behind the session store and the
// setup page. Values are opaque byte slices addressed by fixed string keys.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Keys used by the application.
const (
	KeyUser     = "attendance_user"
	KeyDemoMode = "demo_mode"
	KeySetup    = "setup_data"
)

// ErrNotFound is returned when a key has no entry.
var ErrNotFound = errors.New("cache entry not found")

// Cache stores raw values by key.
// Delete of a missing key is a no-op.
type Cache interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// GetJSON reads key and decodes it into a T.
func GetJSON[T any](c Cache, key string) (T, error) {
	var v T

	data, err := c.Get(key)
	if err != nil {
		return v, err
	}

	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", key, err)
	}

	return v, nil
}

// PutJSON encodes v and writes it under key.
func PutJSON[T any](c Cache, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	return c.Put(key, data)
}
