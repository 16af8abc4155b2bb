package docstore_test

import (
	"context"
	"testing"

	"github.com/campusweb/portal-backend/pkg/docstore"
	"github.com/campusweb/portal-backend/pkg/docstore/memory"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
)

func newNotes(t *testing.T) *docstore.Collection[note] {
	t.Helper()
	col, err := docstore.NewCollection[note]("notes", memory.New())
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	return col
}

func TestCollectionInsertAndGet(t *testing.T) {
	col := newNotes(t)
	ctx := context.Background()

	rec := note{ID: "n1", CourseID: "c1", Text: "welcome"}
	if err := col.Insert(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := col.GetByID(ctx, "n1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != rec {
		t.Fatalf("got %+v want %+v", got, rec)
	}
}

func TestCollectionInsertConflict(t *testing.T) {
	col := newNotes(t)
	ctx := context.Background()

	if err := col.Insert(ctx, note{ID: "n1", Text: "first"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := col.Insert(ctx, note{ID: "n1", Text: "second"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestCollectionInsertRequiresKey(t *testing.T) {
	col := newNotes(t)
	err := col.Insert(context.Background(), note{Text: "keyless"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCollectionGetMissing(t *testing.T) {
	col := newNotes(t)
	_, err := col.GetByID(context.Background(), "nope")
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCollectionReplaceUpserts(t *testing.T) {
	col := newNotes(t)
	ctx := context.Background()

	if err := col.Replace(ctx, note{ID: "n1", Text: "created by replace"}); err != nil {
		t.Fatalf("replace insert: %v", err)
	}
	if err := col.Replace(ctx, note{ID: "n1", Text: "updated"}); err != nil {
		t.Fatalf("replace update: %v", err)
	}

	got, err := col.GetByID(ctx, "n1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Text != "updated" {
		t.Fatalf("expected updated text, got %q", got.Text)
	}
}

func TestCollectionPatch(t *testing.T) {
	col := newNotes(t)
	ctx := context.Background()

	if err := col.Insert(ctx, note{ID: "n1", CourseID: "c1", Text: "before"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := col.Patch(ctx, "n1", map[string]any{"text": "after", "id": "hijack"}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	got, err := col.GetByID(ctx, "n1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Text != "after" {
		t.Fatalf("patch did not apply, text %q", got.Text)
	}
	if got.ID != "n1" {
		t.Fatalf("patch rewrote the key: %q", got.ID)
	}
	if got.CourseID != "c1" {
		t.Fatal("patch clobbered untouched field")
	}
}

func TestCollectionPatchMissing(t *testing.T) {
	col := newNotes(t)
	err := col.Patch(context.Background(), "ghost", map[string]any{"text": "x"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCollectionPatchOnlyKeyRejected(t *testing.T) {
	col := newNotes(t)
	err := col.Patch(context.Background(), "n1", map[string]any{"id": "other"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCollectionRemoveIdempotent(t *testing.T) {
	col := newNotes(t)
	ctx := context.Background()

	if err := col.Insert(ctx, note{ID: "n1", Text: "bye"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := col.Remove(ctx, "n1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := col.Remove(ctx, "n1"); err != nil {
		t.Fatalf("second remove should be a no-op, got %v", err)
	}
	if err := col.Remove(ctx, "never-existed"); err != nil {
		t.Fatalf("removing absent key should succeed, got %v", err)
	}
}

func TestCollectionQueryDecodesResults(t *testing.T) {
	col := newNotes(t)
	ctx := context.Background()

	seed := []note{
		{ID: "n1", CourseID: "c1", Timestamp: "2026-03-01T10:00:00Z"},
		{ID: "n2", CourseID: "c2", Timestamp: "2026-03-01T11:00:00Z"},
		{ID: "n3", CourseID: "c1", Timestamp: "2026-03-01T12:00:00Z"},
	}
	for _, rec := range seed {
		if err := col.Insert(ctx, rec); err != nil {
			t.Fatalf("insert %s: %v", rec.ID, err)
		}
	}

	got, err := col.Query(ctx, docstore.NewQuery().
		Eq("courseId", "c1").
		OrderBy("timestamp", docstore.Descending))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].ID != "n3" || got[1].ID != "n1" {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestCollectionQueryUnsupportedShape(t *testing.T) {
	col := newNotes(t)
	_, err := col.Query(context.Background(), docstore.NewQuery().
		Gte("timestamp", "2026-03-01T00:00:00Z").
		OrderBy("courseId", docstore.Ascending))
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnsupportedQuery) {
		t.Fatalf("expected UNSUPPORTED_QUERY, got %v", err)
	}
}

func TestCollectionListReturnsAll(t *testing.T) {
	col := newNotes(t)
	ctx := context.Background()

	for _, id := range []string{"n1", "n2", "n3"} {
		if err := col.Insert(ctx, note{ID: id}); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	all, err := col.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
}
