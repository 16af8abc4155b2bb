package docstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/google/uuid"
)

// PendingState tracks an optimistic write through its lifecycle.
type PendingState string

const (
	StateDrafting   PendingState = "drafting"
	StateSubmitting PendingState = "submitting"
	StateConfirmed  PendingState = "confirmed"
	StateFailed     PendingState = "failed"
)

// tempKeyPrefix marks locally assigned keys that have not been accepted
// by the store yet.
const tempKeyPrefix = "temp-"

// TempKey returns a fresh provisional document key.
func TempKey() string {
	return tempKeyPrefix + uuid.NewString()
}

// IsTempKey reports whether the key is provisional.
func IsTempKey(key string) bool {
	return strings.HasPrefix(key, tempKeyPrefix)
}

// Pending is one in-flight optimistic write. It is safe for concurrent
// inspection while the submit runs.
type Pending[T Record[T]] struct {
	mu    sync.Mutex
	local T
	state PendingState
	err   error
}

// Local returns the record as the client currently sees it: the draft
// under its temp key before submit, the stored record after.
func (p *Pending[T]) Local() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.local
}

// State returns the lifecycle state.
func (p *Pending[T]) State() PendingState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err returns the submit failure, if any.
func (p *Pending[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Pending[T]) transition(state PendingState, local T, err error) {
	p.mu.Lock()
	p.state = state
	p.local = local
	p.err = err
	p.mu.Unlock()
}

// Optimistic applies writes locally before the store confirms them, so
// callers can render a pending record immediately and reconcile once
// the store catches up.
type Optimistic[T Record[T]] struct {
	col   *Collection[T]
	match func(local, remote T) bool
}

// NewOptimistic builds an optimistic writer over the collection. match
// decides whether a remote record corresponds to a locally pending one,
// comparing content rather than keys since pending records carry temp
// keys.
func NewOptimistic[T Record[T]](col *Collection[T], match func(local, remote T) bool) (*Optimistic[T], error) {
	if col == nil {
		return nil, fmt.Errorf("collection is required")
	}
	if match == nil {
		return nil, fmt.Errorf("match function is required")
	}
	return &Optimistic[T]{col: col, match: match}, nil
}

// Begin stamps the draft with a temp key and returns it as a pending
// write in the drafting state.
func (o *Optimistic[T]) Begin(draft T) *Pending[T] {
	local := draft
	if strings.TrimSpace(local.DocumentKey()) == "" {
		local = local.WithDocumentKey(TempKey())
	}
	return &Pending[T]{local: local, state: StateDrafting}
}

// Submit persists the pending record under a permanent key. On success
// the pending write is confirmed and carries the stored record. Failure
// is terminal for this pending write: the draft is preserved for
// inspection, and a retry starts over with a fresh Begin.
func (o *Optimistic[T]) Submit(ctx context.Context, p *Pending[T]) (T, error) {
	var zero T
	if p == nil {
		return zero, pkgerrors.New(pkgerrors.CodeValidation, "pending write is required")
	}

	p.mu.Lock()
	if p.state != StateDrafting {
		state := p.state
		p.mu.Unlock()
		return zero, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("pending write already %s", state))
	}
	draft := p.local
	p.state = StateSubmitting
	p.mu.Unlock()

	final := draft
	if IsTempKey(final.DocumentKey()) {
		final = final.WithDocumentKey(uuid.NewString())
	}

	if err := o.col.Insert(ctx, final); err != nil {
		p.transition(StateFailed, draft, err)
		return zero, err
	}

	p.transition(StateConfirmed, final, nil)
	return final, nil
}

// Merge overlays pending writes onto a store snapshot. Pending records
// already visible in the snapshot are dropped as duplicates; the rest
// are appended so the client keeps seeing its unconfirmed writes.
// Failed writes are excluded.
func (o *Optimistic[T]) Merge(pending []*Pending[T], snapshot []T) []T {
	merged := make([]T, len(snapshot))
	copy(merged, snapshot)

	for _, p := range pending {
		if p == nil {
			continue
		}
		p.mu.Lock()
		state, local := p.state, p.local
		p.mu.Unlock()

		if state == StateFailed {
			continue
		}

		seen := false
		for _, remote := range snapshot {
			if o.match(local, remote) {
				seen = true
				break
			}
		}
		if !seen {
			merged = append(merged, local)
		}
	}
	return merged
}
