// Package memory provides an in-process document store used in tests
// and single-node development setups.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/campusweb/portal-backend/pkg/docstore"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
)

// Store keeps documents in a mutex-guarded map. Bodies are stored as
// serialized JSON so readers and writers never share map references.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]json.RawMessage
	watchers    map[string][]*watcher
}

// New returns an empty store.
func New() *Store {
	return &Store{
		collections: make(map[string]map[string]json.RawMessage),
		watchers:    make(map[string][]*watcher),
	}
}

var _ docstore.Store = (*Store)(nil)

func (s *Store) Insert(ctx context.Context, collection string, doc docstore.Document) error {
	body, err := encodeBody(doc.Body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	docs := s.collections[collection]
	if docs == nil {
		docs = make(map[string]json.RawMessage)
		s.collections[collection] = docs
	}
	if _, exists := docs[doc.Key]; exists {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("document %q already exists", doc.Key))
	}
	docs[doc.Key] = body
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) Get(ctx context.Context, collection, key string) (docstore.Document, error) {
	s.mu.RLock()
	body, ok := s.collections[collection][key]
	s.mu.RUnlock()
	if !ok {
		return docstore.Document{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("document %q not found", key))
	}
	decoded, err := decodeBody(body)
	if err != nil {
		return docstore.Document{}, err
	}
	return docstore.Document{Key: key, Body: decoded}, nil
}

func (s *Store) Replace(ctx context.Context, collection string, doc docstore.Document) error {
	body, err := encodeBody(doc.Body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	docs := s.collections[collection]
	if docs == nil {
		docs = make(map[string]json.RawMessage)
		s.collections[collection] = docs
	}
	docs[doc.Key] = body
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) Patch(ctx context.Context, collection, key string, fields map[string]any) error {
	s.mu.Lock()
	raw, ok := s.collections[collection][key]
	if !ok {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("document %q not found", key))
	}
	body, err := decodeBody(raw)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	for name, value := range fields {
		body[name] = value
	}
	encoded, err := encodeBody(body)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.collections[collection][key] = encoded
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, key string) error {
	s.mu.Lock()
	docs := s.collections[collection]
	_, existed := docs[key]
	delete(docs, key)
	s.mu.Unlock()

	if existed {
		s.notify(collection)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, q docstore.Query) ([]docstore.Document, error) {
	s.mu.RLock()
	raw := s.collections[collection]
	docs := make([]docstore.Document, 0, len(raw))
	for key, body := range raw {
		decoded, err := decodeBody(body)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		docs = append(docs, docstore.Document{Key: key, Body: decoded})
	}
	s.mu.RUnlock()

	return docstore.Apply(docs, q)
}

func (s *Store) Watch(ctx context.Context, collection string) (docstore.Watcher, error) {
	w := &watcher{
		store:      s,
		collection: collection,
		changes:    make(chan struct{}, 1),
	}

	s.mu.Lock()
	s.watchers[collection] = append(s.watchers[collection], w)
	s.mu.Unlock()

	return w, nil
}

// notify coalesces into each watcher's buffered channel; a watcher that
// has not drained the previous signal does not need another.
func (s *Store) notify(collection string) {
	s.mu.RLock()
	watchers := s.watchers[collection]
	s.mu.RUnlock()

	for _, w := range watchers {
		select {
		case w.changes <- struct{}{}:
		default:
		}
	}
}

type watcher struct {
	store      *Store
	collection string
	changes    chan struct{}
	closeOnce  sync.Once
}

func (w *watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close unregisters the watcher. The changes channel is left open: a
// concurrent notify may have snapshotted the watcher list before the
// removal, and sending into the dead watcher's buffer must stay safe.
func (w *watcher) Close() error {
	w.closeOnce.Do(func() {
		w.store.mu.Lock()
		watchers := w.store.watchers[w.collection]
		for i, candidate := range watchers {
			if candidate == w {
				w.store.watchers[w.collection] = append(watchers[:i], watchers[i+1:]...)
				break
			}
		}
		w.store.mu.Unlock()
	})
	return nil
}

func encodeBody(body map[string]any) (json.RawMessage, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding document body")
	}
	return raw, nil
}

func decodeBody(raw json.RawMessage) (map[string]any, error) {
	body := make(map[string]any)
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding document body")
	}
	return body, nil
}
