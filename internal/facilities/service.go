package facilities

import (
	"context"
	"strings"

	"github.com/campusweb/portal-backend/pkg/docstore"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Collection is the collection name facilities live under.
const Collection = "facilities"

const (
	minRating = 1
	maxRating = 5
)

// Service defines facility directory and rating operations.
type Service interface {
	Create(ctx context.Context, facility Facility) (Facility, error)
	GetByID(ctx context.Context, id string) (Facility, error)
	List(ctx context.Context) ([]Facility, error)
	ListByStatus(ctx context.Context, status enums.FacilityStatus) ([]Facility, error)
	SetStatus(ctx context.Context, id string, status enums.FacilityStatus) error
	Rate(ctx context.Context, id string, rating int) (Facility, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	col *docstore.Collection[Facility]
}

// NewService wires facility dependencies.
func NewService(col *docstore.Collection[Facility]) (Service, error) {
	if col == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "facilities collection required")
	}
	return &service{col: col}, nil
}

func (s *service) Create(ctx context.Context, facility Facility) (Facility, error) {
	if strings.TrimSpace(facility.Name) == "" {
		return Facility{}, pkgerrors.New(pkgerrors.CodeValidation, "facility name required")
	}
	if facility.Status == "" {
		facility.Status = enums.FacilityStatusOpen
	}
	if !facility.Status.IsValid() {
		return Facility{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid facility status")
	}

	if facility.ID == "" {
		facility.ID = uuid.NewString()
	}
	if err := s.col.Insert(ctx, facility); err != nil {
		return Facility{}, err
	}
	return facility, nil
}

func (s *service) GetByID(ctx context.Context, id string) (Facility, error) {
	return s.col.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Facility, error) {
	return s.col.Query(ctx, docstore.NewQuery().OrderBy("name", docstore.Ascending))
}

func (s *service) ListByStatus(ctx context.Context, status enums.FacilityStatus) ([]Facility, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid facility status")
	}
	return s.col.Query(ctx, docstore.NewQuery().
		Eq("status", string(status)).
		OrderBy("name", docstore.Ascending))
}

func (s *service) SetStatus(ctx context.Context, id string, status enums.FacilityStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid facility status")
	}
	return s.col.Patch(ctx, id, map[string]any{"status": string(status)})
}

// Rate folds a new rating into the running average:
// avg' = (avg*total + rating) / (total+1), kept to two decimal places so
// repeated ratings do not accumulate float drift.
func (s *service) Rate(ctx context.Context, id string, rating int) (Facility, error) {
	if rating < minRating || rating > maxRating {
		return Facility{}, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	facility, err := s.col.GetByID(ctx, id)
	if err != nil {
		return Facility{}, err
	}

	total := decimal.NewFromInt(int64(facility.TotalRatings))
	current := decimal.NewFromFloat(facility.AverageRating)
	added := decimal.NewFromInt(int64(rating))

	newTotal := total.Add(decimal.NewFromInt(1))
	newAverage := current.Mul(total).Add(added).Div(newTotal).Round(2)

	facility.Rating = rating
	facility.TotalRatings++
	facility.AverageRating = newAverage.InexactFloat64()

	if err := s.col.Patch(ctx, id, map[string]any{
		"rating":        facility.Rating,
		"totalRatings":  facility.TotalRatings,
		"averageRating": facility.AverageRating,
	}); err != nil {
		return Facility{}, err
	}
	return facility, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.col.Remove(ctx, id)
}
