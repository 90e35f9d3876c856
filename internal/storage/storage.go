// Package storage provides the persisted key-value store the override engine
// writes its state to.
//
// The engine only ever stores a handful of string values (the serialized
// override blob, its schema version marker and the last simulation target), so
// the backend surface is deliberately small. The sqlite implementation is used
// in production, the memory implementation in tests.
package storage

import "errors"

// ErrStorage is returned when the backing store fails in a way we cannot
// give the user more detail about. The underlying error is logged.
var ErrStorage = errors.New("an error occurred while accessing stored data")

// Backend is a string key-value store.
type Backend interface {
	// Get returns the value for key. ok is false when the key does not exist.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}
