package facilities

import (
	"context"
	"math"
	"testing"

	"github.com/campusweb/portal-backend/pkg/docstore"
	"github.com/campusweb/portal-backend/pkg/docstore/memory"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	col, err := docstore.NewCollection[Facility](Collection, memory.New())
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	svc, err := NewService(col)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRateRunningAverage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Facility{
		Name:          "Cafeteria",
		Hours:         "08:00-20:00",
		TotalRatings:  10,
		AverageRating: 4.0,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rated, err := svc.Rate(ctx, created.ID, 5)
	if err != nil {
		t.Fatalf("rate: %v", err)
	}

	if rated.TotalRatings != 11 {
		t.Fatalf("expected 11 total ratings, got %d", rated.TotalRatings)
	}
	// (4.0*10 + 5) / 11 = 4.0909... rounded to 4.09
	if math.Abs(rated.AverageRating-4.09) > 1e-9 {
		t.Fatalf("expected average 4.09, got %v", rated.AverageRating)
	}

	stored, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.TotalRatings != 11 || math.Abs(stored.AverageRating-4.09) > 1e-9 {
		t.Fatalf("rating not persisted: %+v", stored)
	}
	if stored.Rating != 5 {
		t.Fatalf("expected last submitted rating 5, got %d", stored.Rating)
	}
}

func TestRateFirstRating(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Facility{Name: "Library", Hours: "24/7"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rated, err := svc.Rate(ctx, created.ID, 4)
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if rated.TotalRatings != 1 || rated.AverageRating != 4.0 {
		t.Fatalf("unexpected first rating result %+v", rated)
	}
}

func TestRateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Facility{Name: "Gym"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Rate(ctx, created.ID, 0); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if _, err := svc.Rate(ctx, created.ID, 6); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if _, err := svc.Rate(ctx, "missing", 3); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestListByStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seed := []Facility{
		{Name: "Cafeteria", Status: enums.FacilityStatusOpen},
		{Name: "Gym", Status: enums.FacilityStatusClosed},
		{Name: "Library", Status: enums.FacilityStatusOpen},
	}
	for _, fac := range seed {
		if _, err := svc.Create(ctx, fac); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	open, err := svc.ListByStatus(ctx, enums.FacilityStatusOpen)
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(open) != 2 || open[0].Name != "Cafeteria" || open[1].Name != "Library" {
		t.Fatalf("unexpected open facilities %+v", open)
	}

	if _, err := svc.ListByStatus(ctx, enums.FacilityStatus("demolished")); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Facility{Name: "Pool"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != enums.FacilityStatusOpen {
		t.Fatalf("expected open default, got %s", created.Status)
	}

	if err := svc.SetStatus(ctx, created.ID, enums.FacilityStatusClosed); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != enums.FacilityStatusClosed {
		t.Fatalf("status not updated: %s", got.Status)
	}

	if err := svc.SetStatus(ctx, created.ID, enums.FacilityStatus("demolished")); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
