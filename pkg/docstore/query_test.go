package docstore_test

import (
	"testing"

	"github.com/campusweb/portal-backend/pkg/docstore"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
)

func TestQueryBuilderDoesNotAliasConditions(t *testing.T) {
	base := docstore.NewQuery().Eq("courseId", "course-1")

	withRange := base.Gte("timestamp", "2026-03-01T00:00:00Z")
	withOther := base.Eq("pinned", true)

	if got := len(base.Conditions()); got != 1 {
		t.Fatalf("base query mutated, has %d conditions", got)
	}
	if got := len(withRange.Conditions()); got != 2 {
		t.Fatalf("derived query has %d conditions", got)
	}
	if got := withOther.Conditions()[1].Field; got != "pinned" {
		t.Fatalf("unexpected second condition %q", got)
	}
}

func TestQueryValidateRejectsMixedRangeAndOrder(t *testing.T) {
	q := docstore.NewQuery().
		Gte("timestamp", "2026-03-01T00:00:00Z").
		OrderBy("text", docstore.Ascending)

	err := q.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnsupportedQuery) {
		t.Fatalf("expected UNSUPPORTED_QUERY, got %v", err)
	}
}

func TestQueryValidateAllowsRangeWithMatchingOrder(t *testing.T) {
	q := docstore.NewQuery().
		Eq("courseId", "course-1").
		Gte("timestamp", "2026-03-01T00:00:00Z").
		OrderBy("timestamp", docstore.Descending)

	if err := q.Validate(); err != nil {
		t.Fatalf("expected valid query, got %v", err)
	}
}

func TestApplyFilterSortLimit(t *testing.T) {
	docs := []docstore.Document{
		{Key: "a", Body: map[string]any{"courseId": "c1", "timestamp": "2026-03-01T10:00:00Z"}},
		{Key: "b", Body: map[string]any{"courseId": "c2", "timestamp": "2026-03-01T11:00:00Z"}},
		{Key: "c", Body: map[string]any{"courseId": "c1", "timestamp": "2026-03-01T12:00:00Z"}},
		{Key: "d", Body: map[string]any{"courseId": "c1", "timestamp": "2026-03-01T09:00:00Z"}},
	}

	q := docstore.NewQuery().
		Eq("courseId", "c1").
		OrderBy("timestamp", docstore.Descending).
		Limit(2)

	result, err := docstore.Apply(docs, q)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(result))
	}
	if result[0].Key != "c" || result[1].Key != "a" {
		t.Fatalf("unexpected order: %s, %s", result[0].Key, result[1].Key)
	}
}

func TestApplyNumericComparison(t *testing.T) {
	docs := []docstore.Document{
		{Key: "low", Body: map[string]any{"rating": 2.5}},
		{Key: "mid", Body: map[string]any{"rating": 4.0}},
		{Key: "high", Body: map[string]any{"rating": 4.8}},
	}

	result, err := docstore.Apply(docs, docstore.NewQuery().Gte("rating", 4.0))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(result))
	}
}

func TestApplyMissingFieldNeverMatches(t *testing.T) {
	docs := []docstore.Document{
		{Key: "a", Body: map[string]any{"text": "no course"}},
	}
	result, err := docstore.Apply(docs, docstore.NewQuery().Eq("courseId", "c1"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected no matches, got %d", len(result))
	}
}
