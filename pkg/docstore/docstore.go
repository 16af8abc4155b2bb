// Package docstore provides a typed client over a pluggable document
// store. Collections hold schemaless JSON documents addressed by a
// string key; drivers supply storage and change notification while this
// package supplies encoding, querying, subscriptions, and optimistic
// writes.
package docstore

import (
	"context"
)

// Document is the raw wire form of a stored record: a key plus a flat
// JSON-compatible body. The body never carries the key.
type Document struct {
	Key  string
	Body map[string]any
}

// Store is the driver contract. Implementations must be safe for
// concurrent use.
//
// Error codes drivers are expected to return through pkg/errors:
// CodeConflict from Insert when the key exists, CodeNotFound from Get
// and Patch when it does not, CodeDependency for backend failures.
// Delete is idempotent and succeeds when the key is absent.
type Store interface {
	Insert(ctx context.Context, collection string, doc Document) error
	Get(ctx context.Context, collection, key string) (Document, error)
	Replace(ctx context.Context, collection string, doc Document) error
	Patch(ctx context.Context, collection, key string, fields map[string]any) error
	Delete(ctx context.Context, collection, key string) error
	Query(ctx context.Context, collection string, q Query) ([]Document, error)
	Watch(ctx context.Context, collection string) (Watcher, error)
}

// Watcher delivers coalesced change notifications for one collection.
// A receive on Changes means "something changed since you last looked";
// subscribers re-query for the current snapshot.
type Watcher interface {
	Changes() <-chan struct{}
	Close() error
}

// Record is the constraint for types stored in a collection. The key
// lives outside the document body, so records expose it explicitly and
// return an updated copy when it is assigned.
type Record[T any] interface {
	DocumentKey() string
	WithDocumentKey(key string) T
}
