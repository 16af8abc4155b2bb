package students

import (
	"context"
	"testing"

	"github.com/campusweb/portal-backend/pkg/docstore"
	"github.com/campusweb/portal-backend/pkg/docstore/memory"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	col, err := docstore.NewCollection[Student](Collection, memory.New())
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	svc, err := NewService(col)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateAssignsDefaults(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), Student{
		FirstName: "Noa",
		LastName:  "Levi",
		Email:     "noa@example.edu",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.FullName != "Noa Levi" {
		t.Fatalf("unexpected full name %q", created.FullName)
	}
	if created.Status != enums.StudentStatusActive {
		t.Fatalf("expected active default status, got %s", created.Status)
	}

	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "noa@example.edu" {
		t.Fatalf("unexpected stored record %+v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), Student{FirstName: "Only"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}

	_, err = svc.Create(context.Background(), Student{
		FirstName: "Bad", LastName: "Status", Email: "x@example.edu",
		Status: enums.StudentStatus("unknown"),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for status, got %v", err)
	}
}

func TestListByStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seed := []Student{
		{FirstName: "A", LastName: "One", Email: "a@example.edu", Status: enums.StudentStatusActive},
		{FirstName: "B", LastName: "Two", Email: "b@example.edu", Status: enums.StudentStatusGraduated},
		{FirstName: "C", LastName: "Three", Email: "c@example.edu", Status: enums.StudentStatusActive},
	}
	for _, st := range seed {
		if _, err := svc.Create(ctx, st); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	active, err := svc.ListByStatus(ctx, enums.StudentStatusActive)
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active students, got %d", len(active))
	}
}

func TestSearch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seed := []Student{
		{FirstName: "Noa", LastName: "Levi", Email: "noa.levi@example.edu", StudentNumber: "2024001"},
		{FirstName: "Dan", LastName: "Levinson", Email: "dan@example.edu", StudentNumber: "2024002"},
		{FirstName: "Maya", LastName: "Peretz", Email: "maya@example.edu", StudentNumber: "2024003"},
	}
	for _, st := range seed {
		if _, err := svc.Create(ctx, st); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	byName, err := svc.Search(ctx, "levi")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byName) != 2 {
		t.Fatalf("expected 2 matches for 'levi', got %d", len(byName))
	}

	byNumber, err := svc.Search(ctx, "2024003")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byNumber) != 1 || byNumber[0].FullName != "Maya Peretz" {
		t.Fatalf("unexpected match %+v", byNumber)
	}

	if _, err := svc.Search(ctx, "  "); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for empty term, got %v", err)
	}
}

func TestPatchAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Student{FirstName: "Dana", LastName: "Cohen", Email: "dana@example.edu"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Patch(ctx, created.ID, map[string]any{"city": "Haifa"}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.City != "Haifa" {
		t.Fatalf("patch not applied: %+v", got)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND after delete, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete absent student should be a no-op, got %v", err)
	}
}
