// Package storage provides durable single-slot backends for the dataset.
package storage

import "errors"

// ErrEmpty is returned by Get when nothing has been stored under the key.
var ErrEmpty = errors.New("storage: slot is empty")

// Slot is a keyed durable store holding one serialized document per key.
type Slot interface {
	// Get returns the stored bytes, or ErrEmpty when the key was never written.
	Get(key string) ([]byte, error)
	// Set replaces the stored bytes atomically.
	Set(key string, value []byte) error
}

var (
	_ Slot = (*FS)(nil)
	_ Slot = (*SQLite)(nil)
	_ Slot = (*Memory)(nil)
)
