package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/campusweb/portal-backend/pkg/logger"
	"github.com/campusweb/portal-backend/pkg/metrics"
)

// DefaultOpTimeout bounds each store operation when the caller's context
// carries no earlier deadline.
const DefaultOpTimeout = 15 * time.Second

// Collection is a typed client over one named collection. All
// operations are bounded by the configured per-op timeout and surface
// pkg/errors codes.
type Collection[T Record[T]] struct {
	name    string
	store   Store
	codec   Codec[T]
	logg    *logger.Logger
	met     *metrics.DocstoreMetrics
	timeout time.Duration
}

// CollectionOption customizes a collection client.
type CollectionOption func(*collectionSettings)

type collectionSettings struct {
	logg    *logger.Logger
	met     *metrics.DocstoreMetrics
	timeout time.Duration
}

// WithLogger attaches a logger; operations log failures with the
// collection field set.
func WithLogger(logg *logger.Logger) CollectionOption {
	return func(s *collectionSettings) { s.logg = logg }
}

// WithMetrics attaches operation metrics.
func WithMetrics(met *metrics.DocstoreMetrics) CollectionOption {
	return func(s *collectionSettings) { s.met = met }
}

// WithOpTimeout overrides the per-operation timeout.
func WithOpTimeout(timeout time.Duration) CollectionOption {
	return func(s *collectionSettings) { s.timeout = timeout }
}

// NewCollection builds a typed client for the named collection.
func NewCollection[T Record[T]](name string, store Store, opts ...CollectionOption) (*Collection[T], error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}

	settings := collectionSettings{timeout: DefaultOpTimeout}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.timeout <= 0 {
		settings.timeout = DefaultOpTimeout
	}

	return &Collection[T]{
		name:    name,
		store:   store,
		logg:    settings.logg,
		met:     settings.met,
		timeout: settings.timeout,
	}, nil
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Insert stores a new record. The record must carry a key, and the key
// must not already exist.
func (c *Collection[T]) Insert(ctx context.Context, rec T) error {
	if strings.TrimSpace(rec.DocumentKey()) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "record key is required")
	}
	doc, err := c.codec.Encode(rec)
	if err != nil {
		return err
	}
	return c.run(ctx, "insert", func(opCtx context.Context) error {
		return c.store.Insert(opCtx, c.name, doc)
	})
}

// GetByID fetches one record by key.
func (c *Collection[T]) GetByID(ctx context.Context, key string) (T, error) {
	var rec T
	if strings.TrimSpace(key) == "" {
		return rec, pkgerrors.New(pkgerrors.CodeValidation, "record key is required")
	}

	var doc Document
	err := c.run(ctx, "get", func(opCtx context.Context) error {
		var opErr error
		doc, opErr = c.store.Get(opCtx, c.name, key)
		return opErr
	})
	if err != nil {
		return rec, err
	}
	return c.codec.Decode(doc)
}

// List returns every record in the collection.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	return c.Query(ctx, NewQuery())
}

// Replace writes the record under its key, creating it when absent.
func (c *Collection[T]) Replace(ctx context.Context, rec T) error {
	if strings.TrimSpace(rec.DocumentKey()) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "record key is required")
	}
	doc, err := c.codec.Encode(rec)
	if err != nil {
		return err
	}
	return c.run(ctx, "replace", func(opCtx context.Context) error {
		return c.store.Replace(opCtx, c.name, doc)
	})
}

// Patch merges the provided fields into an existing record. The key
// field is never patchable and is silently dropped. Patching a missing
// key returns CodeNotFound.
func (c *Collection[T]) Patch(ctx context.Context, key string, fields map[string]any) error {
	if strings.TrimSpace(key) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "record key is required")
	}
	if len(fields) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "patch requires at least one field")
	}

	clean := make(map[string]any, len(fields))
	for name, value := range fields {
		if name == keyField {
			continue
		}
		clean[name] = value
	}
	if len(clean) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "patch cannot target the record key")
	}

	return c.run(ctx, "patch", func(opCtx context.Context) error {
		return c.store.Patch(opCtx, c.name, key, clean)
	})
}

// Remove deletes the record under key. Removing an absent key is a
// no-op.
func (c *Collection[T]) Remove(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "record key is required")
	}
	return c.run(ctx, "remove", func(opCtx context.Context) error {
		return c.store.Delete(opCtx, c.name, key)
	})
}

// Query runs a filtered read and decodes the results.
func (c *Collection[T]) Query(ctx context.Context, q Query) ([]T, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var docs []Document
	err := c.run(ctx, "query", func(opCtx context.Context) error {
		var opErr error
		docs, opErr = c.store.Query(opCtx, c.name, q)
		return opErr
	})
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		rec, err := c.codec.Decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// run wraps one store call with the per-op timeout, metrics, and error
// normalization.
func (c *Collection[T]) run(ctx context.Context, op string, fn func(context.Context) error) error {
	opCtx := ctx
	cancel := func() {}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		opCtx, cancel = context.WithTimeout(ctx, c.timeout)
	}
	defer cancel()

	started := time.Now()
	err := fn(opCtx)
	c.met.ObserveOp(c.name, op, time.Since(started))

	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		err = pkgerrors.Wrap(pkgerrors.CodeTimeout, err, fmt.Sprintf("%s on %s timed out", op, c.name))
	}

	appErr := pkgerrors.As(err)
	if appErr == nil {
		err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s on %s failed", op, c.name))
		appErr = pkgerrors.As(err)
	}
	c.met.IncFailure(c.name, op, string(appErr.Code()))

	if c.logg != nil && appErr.Code() != pkgerrors.CodeNotFound {
		logCtx := c.logg.WithCollection(ctx, c.name)
		c.logg.Error(logCtx, fmt.Sprintf("docstore %s failed", op), err)
	}
	return err
}
