package docstore

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/sethvargo/go-retry"
)

const (
	snapshotRetryBase = 200 * time.Millisecond
	snapshotRetryMax  = 5
)

// Subscription streams snapshots of a query's result set. The first
// snapshot arrives immediately; later ones follow store changes.
// Snapshots are produced by a single goroutine, so they are delivered
// in the order the store settled into them.
type Subscription[T Record[T]] struct {
	snapshots chan []T
	cancel    context.CancelFunc
	once      sync.Once
	done      chan struct{}

	mu  sync.Mutex
	err error
}

// Subscribe opens a change subscription over the query. The caller owns
// the subscription and must Cancel it when done. Cancelling the context
// also tears it down.
func (c *Collection[T]) Subscribe(ctx context.Context, q Query) (*Subscription[T], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	watcher, err := c.store.Watch(ctx, c.name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening change watcher")
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		snapshots: make(chan []T, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	c.met.SubscriptionOpened(c.name)
	go c.deliver(subCtx, sub, watcher, q)

	return sub, nil
}

// Snapshots returns the channel carrying result-set snapshots. It is
// closed when the subscription ends.
func (s *Subscription[T]) Snapshots() <-chan []T {
	return s.snapshots
}

// Err reports why the subscription ended. It is nil until the snapshot
// channel closes, and stays nil after a clean cancel.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Cancel tears down the subscription. Calling it more than once is a
// no-op.
func (s *Subscription[T]) Cancel() {
	s.once.Do(s.cancel)
	<-s.done
}

func (s *Subscription[T]) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// deliver is the single delivery goroutine. Every snapshot it emits is
// a fresh query result, so a burst of notifications coalesces into the
// latest state rather than replaying intermediates.
func (c *Collection[T]) deliver(ctx context.Context, sub *Subscription[T], watcher Watcher, q Query) {
	defer func() {
		watcher.Close()
		c.met.SubscriptionClosed(c.name)
		close(sub.snapshots)
		close(sub.done)
	}()

	if !c.emit(ctx, sub, q) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case _, open := <-watcher.Changes():
			if !open {
				sub.fail(pkgerrors.New(pkgerrors.CodeDependency, "change watcher closed"))
				return
			}
			if !c.emit(ctx, sub, q) {
				return
			}
		}
	}
}

// emit queries the current snapshot, retrying transient failures with
// exponential backoff, and pushes it to the subscriber. It returns
// false when the subscription should end.
func (c *Collection[T]) emit(ctx context.Context, sub *Subscription[T], q Query) bool {
	var snapshot []T
	backoff := retry.WithMaxRetries(snapshotRetryMax, retry.NewExponential(snapshotRetryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		recs, err := c.Query(ctx, q)
		if err != nil {
			if appErr := pkgerrors.As(err); appErr != nil && pkgerrors.MetadataFor(appErr.Code()).Retryable {
				return retry.RetryableError(err)
			}
			return err
		}
		snapshot = recs
		return nil
	})
	if err != nil {
		if ctx.Err() == nil {
			sub.fail(err)
		}
		return false
	}

	select {
	case <-ctx.Done():
		return false
	case sub.snapshots <- snapshot:
		return true
	}
}
