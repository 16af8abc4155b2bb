package inquiries

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
	col, err := docstore.NewCollection[Inquiry](Collection, memory.New())
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	svc, err := NewService(col)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateAndListByCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seed := []Inquiry{
		{Category: enums.InquiryCategoryComplaint, Description: "broken AC", User: "noa", CreatedAt: "2026-03-01T10:00:00Z"},
		{Category: enums.InquiryCategoryImprovement, Description: "more sockets", User: "dan", CreatedAt: "2026-03-01T11:00:00Z"},
		{Category: enums.InquiryCategoryComplaint, Description: "noisy hallway", User: "eli", CreatedAt: "2026-03-01T12:00:00Z"},
	}
	for _, inquiry := range seed {
		if _, err := svc.Create(ctx, inquiry); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	complaints, err := svc.ListByCategory(ctx, enums.InquiryCategoryComplaint)
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(complaints) != 2 {
		t.Fatalf("expected 2 complaints, got %d", len(complaints))
	}
	if complaints[0].Description != "noisy hallway" {
		t.Fatalf("expected newest first, got %q", complaints[0].Description)
	}
}

func TestCreateDefaultsCreatedAt(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), Inquiry{
		Category:    enums.InquiryCategoryImprovement,
		Description: "longer library hours",
		User:        "noa",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.CreatedAt == "" {
		t.Fatalf("expected generated id and createdAt, got %+v", created)
	}

	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != created.Description {
		t.Fatalf("unexpected stored record %+v", got)
	}
	if _, err := svc.GetByID(context.Background(), "missing"); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), Inquiry{Description: "x", User: "y"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
