package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no document.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a key-value document store. Keys are slash-separated composite
// paths ("results/class_1__exam_2"); values are whole JSON documents,
// read-modify-written on every mutation. Implementations must make Put
// atomic per key: a crash mid-write may lose the write but never corrupts
// the previous document.
type Store interface {
	// Get unmarshals the document at key into dst. Returns ErrNotFound
	// when no document exists.
	Get(ctx context.Context, key string, dst interface{}) error

	// Put marshals v and stores it at key, replacing any previous document.
	Put(ctx context.Context, key string, v interface{}) error

	// Delete removes the document at key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// List returns the keys under the given slash-terminated prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases any underlying connections.
	Close() error
}
