// Package storage provides the durable key/value substrate the favorites
// list is persisted into.
//
// The application only needs get/set over opaque values, so every backend
// satisfies the small KV interface:
//   - Memory keeps values in process, for tests and dry runs
//   - File keeps all keys in a single JSON document on an afero.Fs
//   - SQLite keeps one row per key in an embedded database
package storage

import "errors"

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// KV is a last-writer-wins key/value store.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}
