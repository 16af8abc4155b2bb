// Package gormstore backs the document store with a SQL database
// through GORM. Documents live in a single table keyed by collection
// and document key, with the body stored as JSON text so the same
// schema serves Postgres and SQLite.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/campusweb/portal-backend/pkg/db"
	"github.com/campusweb/portal-backend/pkg/docstore"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPollInterval paces the change watcher when the caller does not
// override it.
const DefaultPollInterval = 2 * time.Second

type documentRow struct {
	Collection string    `gorm:"column:collection;primaryKey"`
	Key        string    `gorm:"column:key;primaryKey"`
	Body       string    `gorm:"column:body"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (documentRow) TableName() string {
	return "documents"
}

// Store implements docstore.Store over a GORM client. Change detection
// is polling-based: SQL gives us no push primitive, so watchers compare
// a per-collection version on an interval.
type Store struct {
	client       *db.Client
	pollInterval time.Duration
}

// New wraps the database client as a document store.
func New(client *db.Client, pollInterval time.Duration) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Store{client: client, pollInterval: pollInterval}, nil
}

var _ docstore.Store = (*Store)(nil)

func (s *Store) Insert(ctx context.Context, collection string, doc docstore.Document) error {
	row, err := toRow(collection, doc)
	if err != nil {
		return err
	}

	result := s.client.DB().WithContext(ctx).Create(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) || db.IsUniqueViolation(result.Error, "") {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("document %q already exists", doc.Key))
		}
		return dependency(result.Error, "inserting document")
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection, key string) (docstore.Document, error) {
	var row documentRow
	result := s.client.DB().WithContext(ctx).
		Where("collection = ? AND key = ?", collection, key).
		First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return docstore.Document{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("document %q not found", key))
		}
		return docstore.Document{}, dependency(result.Error, "reading document")
	}
	return fromRow(row)
}

func (s *Store) Replace(ctx context.Context, collection string, doc docstore.Document) error {
	row, err := toRow(collection, doc)
	if err != nil {
		return err
	}

	result := s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).
		Create(&row)
	if result.Error != nil {
		return dependency(result.Error, "replacing document")
	}
	return nil
}

func (s *Store) Patch(ctx context.Context, collection, key string, fields map[string]any) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		var row documentRow
		result := tx.
			Where("collection = ? AND key = ?", collection, key).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&row)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("document %q not found", key))
			}
			return dependency(result.Error, "reading document for patch")
		}

		body := make(map[string]any)
		if err := json.Unmarshal([]byte(row.Body), &body); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding document body")
		}
		for name, value := range fields {
			body[name] = value
		}
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding document body")
		}

		update := tx.Model(&documentRow{}).
			Where("collection = ? AND key = ?", collection, key).
			Updates(map[string]any{"body": string(encoded), "updated_at": time.Now().UTC()})
		if update.Error != nil {
			return dependency(update.Error, "patching document")
		}
		return nil
	})
}

func (s *Store) Delete(ctx context.Context, collection, key string) error {
	result := s.client.DB().WithContext(ctx).
		Where("collection = ? AND key = ?", collection, key).
		Delete(&documentRow{})
	if result.Error != nil {
		return dependency(result.Error, "deleting document")
	}
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, q docstore.Query) ([]docstore.Document, error) {
	var rows []documentRow
	result := s.client.DB().WithContext(ctx).
		Where("collection = ?", collection).
		Find(&rows)
	if result.Error != nil {
		return nil, dependency(result.Error, "listing documents")
	}

	docs := make([]docstore.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docstore.Apply(docs, q)
}

func (s *Store) Watch(ctx context.Context, collection string) (docstore.Watcher, error) {
	w := &watcher{
		store:      s,
		collection: collection,
		changes:    make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	go w.poll(ctx)
	return w, nil
}

// collectionVersion summarizes the collection's state cheaply enough to
// poll: row count plus the newest update time.
func (s *Store) collectionVersion(ctx context.Context, collection string) (string, error) {
	var state struct {
		Count   int64
		Updated *time.Time
	}
	result := s.client.Raw(ctx,
		"SELECT COUNT(*) AS count, MAX(updated_at) AS updated FROM documents WHERE collection = ?",
		collection,
	).Scan(&state)
	if result.Error != nil {
		return "", dependency(result.Error, "reading collection version")
	}

	updated := ""
	if state.Updated != nil {
		updated = state.Updated.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("%d|%s", state.Count, updated), nil
}

type watcher struct {
	store      *Store
	collection string
	changes    chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
}

func (w *watcher) poll(ctx context.Context) {
	defer close(w.changes)

	ticker := time.NewTicker(w.store.pollInterval)
	defer ticker.Stop()

	last, _ := w.store.collectionVersion(ctx, w.collection)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-ticker.C:
			version, err := w.store.collectionVersion(ctx, w.collection)
			if err != nil {
				continue
			}
			if version == last {
				continue
			}
			last = version
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
	w.closeOnce.Do(func() { close(w.done) })
	return nil
}

func toRow(collection string, doc docstore.Document) (documentRow, error) {
	raw, err := json.Marshal(doc.Body)
	if err != nil {
		return documentRow{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding document body")
	}
	return documentRow{
		Collection: collection,
		Key:        doc.Key,
		Body:       string(raw),
		UpdatedAt:  time.Now().UTC(),
	}, nil
}

func fromRow(row documentRow) (docstore.Document, error) {
	body := make(map[string]any)
	if err := json.Unmarshal([]byte(row.Body), &body); err != nil {
		return docstore.Document{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding document body")
	}
	return docstore.Document{Key: row.Key, Body: body}, nil
}

func dependency(err error, msg string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
