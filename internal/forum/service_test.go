package forum

import (
	"context"
	"testing"
	"time"

	"github.com/campusweb/portal-backend/pkg/docstore"
	"github.com/campusweb/portal-backend/pkg/docstore/memory"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	col, err := docstore.NewCollection[Message](Collection, memory.New())
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	svc, err := NewService(col)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSendAndListNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Send(ctx, "course-1", "noa", "hello everyone")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if docstore.IsTempKey(first.ID) {
		t.Fatalf("confirmed message kept temp key %q", first.ID)
	}

	if _, err := svc.Send(ctx, "course-1", "dan", "hi noa"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Send(ctx, "course-2", "eli", "wrong course"); err != nil {
		t.Fatalf("send: %v", err)
	}

	msgs, err := svc.ListByCourse(ctx, "course-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "hi noa" || msgs[1].Content != "hello everyone" {
		t.Fatalf("expected newest first, got %q then %q", msgs[0].Content, msgs[1].Content)
	}
}

func TestBeginSendOverlayThenSubmit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	pending, err := svc.BeginSend("course-1", "noa", "draft message")
	if err != nil {
		t.Fatalf("begin send: %v", err)
	}
	if !docstore.IsTempKey(pending.Local().ID) {
		t.Fatalf("expected temp key, got %q", pending.Local().ID)
	}

	// Before submit, the overlay shows the pending message on top of an
	// empty snapshot.
	overlaid := svc.Overlay([]*docstore.Pending[Message]{pending}, nil)
	if len(overlaid) != 1 || overlaid[0].Content != "draft message" {
		t.Fatalf("unexpected overlay %+v", overlaid)
	}

	confirmed, err := svc.Submit(ctx, pending)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// After confirmation the snapshot contains the message, so the
	// overlay must not duplicate it.
	snapshot, err := svc.ListByCourse(ctx, "course-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	merged := svc.Overlay([]*docstore.Pending[Message]{pending}, snapshot)
	if len(merged) != 1 {
		t.Fatalf("expected 1 message after merge, got %d", len(merged))
	}
	if merged[0].ID != confirmed.ID {
		t.Fatalf("expected stored message, got %+v", merged[0])
	}
}

func TestListBySenderAndRecent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Send(ctx, "course-1", "noa", "first"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Send(ctx, "course-2", "dan", "second"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Send(ctx, "course-1", "noa", "third"); err != nil {
		t.Fatalf("send: %v", err)
	}

	mine, err := svc.ListBySender(ctx, "noa")
	if err != nil {
		t.Fatalf("list by sender: %v", err)
	}
	if len(mine) != 2 || mine[0].Content != "third" {
		t.Fatalf("unexpected sender result %+v", mine)
	}

	recent, err := svc.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Content != "third" || recent[1].Content != "second" {
		t.Fatalf("unexpected recent result %+v", recent)
	}
}

func TestListBetween(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Send(ctx, "course-1", "noa", "inside the window"); err != nil {
		t.Fatalf("send: %v", err)
	}

	now := time.Now().UTC()
	msgs, err := svc.ListBetween(ctx, now.Add(-time.Minute), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("list between: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message in window, got %d", len(msgs))
	}

	msgs, err = svc.ListBetween(ctx, now.Add(time.Hour), now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("list between: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected empty window, got %d", len(msgs))
	}

	if _, err := svc.ListBetween(ctx, now.Add(time.Hour), now); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for inverted range, got %v", err)
	}
}

func TestSendValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Send(ctx, "course-1", "", "content"); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if _, err := svc.Send(ctx, "course-1", "noa", "  "); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestStreamSeesNewMessages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sub, err := svc.Stream(ctx, "course-1")
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer sub.Cancel()

	select {
	case initial := <-sub.Snapshots():
		if len(initial) != 0 {
			t.Fatalf("expected empty initial snapshot, got %d", len(initial))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	if _, err := svc.Send(ctx, "course-1", "noa", "live update"); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case next := <-sub.Snapshots():
		if len(next) != 1 || next[0].Content != "live update" {
			t.Fatalf("unexpected snapshot %+v", next)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change snapshot")
	}
}

func TestStreamWithoutCourseSeesAllMessages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sub, err := svc.Stream(ctx, "")
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer sub.Cancel()

	select {
	case <-sub.Snapshots():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	if _, err := svc.Send(ctx, "course-1", "noa", "course message"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Send(ctx, "", "dan", "campus-wide message"); err != nil {
		t.Fatalf("send: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case snapshot, open := <-sub.Snapshots():
			if !open {
				t.Fatalf("stream closed early: %v", sub.Err())
			}
			if len(snapshot) == 2 {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for both messages")
		}
	}
}
