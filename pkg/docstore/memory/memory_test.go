package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/campusweb/portal-backend/pkg/docstore"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
)

func TestStoreBodyIsolation(t *testing.T) {
	store := New()
	ctx := context.Background()

	body := map[string]any{"text": "original"}
	if err := store.Insert(ctx, "notes", docstore.Document{Key: "n1", Body: body}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Mutating the caller's map must not leak into the store.
	body["text"] = "mutated"

	got, err := store.Get(ctx, "notes", "n1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Body["text"] != "original" {
		t.Fatalf("stored body aliased caller map: %v", got.Body["text"])
	}

	// And mutating a read result must not leak back either.
	got.Body["text"] = "reader mutation"
	again, err := store.Get(ctx, "notes", "n1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Body["text"] != "original" {
		t.Fatalf("read result aliased stored body: %v", again.Body["text"])
	}
}

func TestStoreInsertConflict(t *testing.T) {
	store := New()
	ctx := context.Background()

	doc := docstore.Document{Key: "n1", Body: map[string]any{}}
	if err := store.Insert(ctx, "notes", doc); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := store.Insert(ctx, "notes", doc)
	if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestStoreCollectionsAreIndependent(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Insert(ctx, "notes", docstore.Document{Key: "x", Body: map[string]any{}}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err := store.Get(ctx, "events", "x")
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND across collections, got %v", err)
	}
}

func TestWatchNotifiesAndCoalesces(t *testing.T) {
	store := New()
	ctx := context.Background()

	w, err := store.Watch(ctx, "notes")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	for i := 0; i < 5; i++ {
		doc := docstore.Document{Key: string(rune('a' + i)), Body: map[string]any{}}
		if err := store.Insert(ctx, "notes", doc); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	select {
	case <-w.Changes():
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatchCloseIsIdempotent(t *testing.T) {
	store := New()
	w, err := store.Watch(context.Background(), "notes")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	// A write after close must not panic on the removed watcher.
	if err := store.Insert(context.Background(), "notes", docstore.Document{Key: "n1", Body: map[string]any{}}); err != nil {
		t.Fatalf("insert after close: %v", err)
	}
}

func TestWatchCloseRacingWrites(t *testing.T) {
	store := New()
	ctx := context.Background()

	// Writers hammer the collection while watchers churn through
	// Watch/Close cycles. A notify that snapshots the watcher list just
	// before a Close must still be safe to deliver.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(writer int) {
			defer wg.Done()
			for n := 0; ; n++ {
				select {
				case <-stop:
					return
				default:
				}
				doc := docstore.Document{
					Key:  fmt.Sprintf("w%d-%d", writer, n),
					Body: map[string]any{"n": n},
				}
				if err := store.Insert(ctx, "notes", doc); err != nil {
					t.Errorf("insert: %v", err)
					return
				}
			}
		}(i)
	}

	for i := 0; i < 200; i++ {
		w, err := store.Watch(ctx, "notes")
		if err != nil {
			t.Fatalf("watch: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	close(stop)
	wg.Wait()
}
