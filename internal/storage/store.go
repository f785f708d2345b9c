// Package storage provides key-value persistence for score history and
// high scores. Values are opaque bytes; GetJSON and SetJSON add the JSON
// encoding used by the score calculator.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// KV is a key-value store with get/set/remove semantics.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error

	// Close releases the underlying connection.
	Close() error
}

// GetJSON decodes the value under key into dst.
// If the key is missing, dst is left untouched (acting as the default)
// and found is false.
func GetJSON(kv KV, key string, dst any) (found bool, err error) {
	data, err := kv.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("storage: cannot decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v as JSON and stores it under key.
func SetJSON(kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: cannot encode %s: %w", key, err)
	}
	return kv.Set(key, data)
}
