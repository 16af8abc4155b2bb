// Package redisstore backs the document store with Redis hashes, one
// hash per collection, and fans out change notifications over pub/sub.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/campusweb/portal-backend/pkg/docstore"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	redisclient "github.com/campusweb/portal-backend/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

// Store implements docstore.Store over a shared Redis client. Document
// bodies are JSON strings keyed by document key inside the collection
// hash.
type Store struct {
	client *redisclient.Client
}

// New wraps the Redis client as a document store.
func New(client *redisclient.Client) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Store{client: client}, nil
}

var _ docstore.Store = (*Store)(nil)

func (s *Store) Insert(ctx context.Context, collection string, doc docstore.Document) error {
	hashKey := s.client.DocumentKey(collection)

	exists, err := s.client.HExists(ctx, hashKey, doc.Key)
	if err != nil {
		return dependency(err, "checking document existence")
	}
	if exists {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("document %q already exists", doc.Key))
	}

	return s.write(ctx, collection, doc)
}

func (s *Store) Get(ctx context.Context, collection, key string) (docstore.Document, error) {
	raw, err := s.client.HGet(ctx, s.client.DocumentKey(collection), key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return docstore.Document{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("document %q not found", key))
		}
		return docstore.Document{}, dependency(err, "reading document")
	}

	body, err := decodeBody(raw)
	if err != nil {
		return docstore.Document{}, err
	}
	return docstore.Document{Key: key, Body: body}, nil
}

func (s *Store) Replace(ctx context.Context, collection string, doc docstore.Document) error {
	return s.write(ctx, collection, doc)
}

func (s *Store) Patch(ctx context.Context, collection, key string, fields map[string]any) error {
	current, err := s.Get(ctx, collection, key)
	if err != nil {
		return err
	}
	for name, value := range fields {
		current.Body[name] = value
	}
	return s.write(ctx, collection, current)
}

func (s *Store) Delete(ctx context.Context, collection, key string) error {
	if err := s.client.HDel(ctx, s.client.DocumentKey(collection), key); err != nil {
		return dependency(err, "deleting document")
	}
	return s.announce(ctx, collection)
}

func (s *Store) Query(ctx context.Context, collection string, q docstore.Query) ([]docstore.Document, error) {
	entries, err := s.client.HGetAll(ctx, s.client.DocumentKey(collection))
	if err != nil {
		return nil, dependency(err, "listing documents")
	}

	docs := make([]docstore.Document, 0, len(entries))
	for key, raw := range entries {
		body, err := decodeBody(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, docstore.Document{Key: key, Body: body})
	}

	return docstore.Apply(docs, q)
}

func (s *Store) Watch(ctx context.Context, collection string) (docstore.Watcher, error) {
	pubsub, err := s.client.Subscribe(ctx, s.client.ChangeChannel(collection))
	if err != nil {
		return nil, dependency(err, "subscribing to changes")
	}

	w := &watcher{
		pubsub:  pubsub,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.pump()
	return w, nil
}

func (s *Store) write(ctx context.Context, collection string, doc docstore.Document) error {
	raw, err := json.Marshal(doc.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding document body")
	}
	if err := s.client.HSet(ctx, s.client.DocumentKey(collection), doc.Key, string(raw)); err != nil {
		return dependency(err, "writing document")
	}
	return s.announce(ctx, collection)
}

// announce publishes a change marker; subscribers re-query rather than
// consume the payload.
func (s *Store) announce(ctx context.Context, collection string) error {
	if err := s.client.Publish(ctx, s.client.ChangeChannel(collection), "changed"); err != nil {
		return dependency(err, "publishing change notification")
	}
	return nil
}

type watcher struct {
	pubsub    *redislib.PubSub
	changes   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func (w *watcher) pump() {
	defer close(w.changes)
	for {
		select {
		case <-w.done:
			return
		case _, open := <-w.pubsub.Channel():
			if !open {
				return
			}
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}

func (w *watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.pubsub.Close()
	})
	return err
}

func decodeBody(raw string) (map[string]any, error) {
	body := make(map[string]any)
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding document body")
	}
	return body, nil
}

func dependency(err error, msg string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
