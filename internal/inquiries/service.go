package inquiries

import (
	"context"
	"strings"
	"time"

	"github.com/campusweb/portal-backend/pkg/docstore"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/google/uuid"
)

// Collection is the collection name inquiries live under.
const Collection = "inquiries"

// Service defines inquiry form operations.
type Service interface {
	Create(ctx context.Context, inquiry Inquiry) (Inquiry, error)
	GetByID(ctx context.Context, id string) (Inquiry, error)
	List(ctx context.Context) ([]Inquiry, error)
	ListByCategory(ctx context.Context, category enums.InquiryCategory) ([]Inquiry, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	col *docstore.Collection[Inquiry]
	now func() time.Time
}

// NewService wires inquiry dependencies.
func NewService(col *docstore.Collection[Inquiry]) (Service, error) {
	if col == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inquiries collection required")
	}
	return &service{col: col, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, inquiry Inquiry) (Inquiry, error) {
	if !inquiry.Category.IsValid() {
		return Inquiry{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid inquiry category")
	}
	if strings.TrimSpace(inquiry.Description) == "" {
		return Inquiry{}, pkgerrors.New(pkgerrors.CodeValidation, "description required")
	}
	if strings.TrimSpace(inquiry.User) == "" {
		return Inquiry{}, pkgerrors.New(pkgerrors.CodeValidation, "submitting user required")
	}

	if inquiry.ID == "" {
		inquiry.ID = uuid.NewString()
	}
	if inquiry.CreatedAt == "" {
		inquiry.CreatedAt = s.now().UTC().Format(time.RFC3339)
	}

	if err := s.col.Insert(ctx, inquiry); err != nil {
		return Inquiry{}, err
	}
	return inquiry, nil
}

func (s *service) GetByID(ctx context.Context, id string) (Inquiry, error) {
	return s.col.GetByID(ctx, id)
}

// List returns all inquiries, newest first.
func (s *service) List(ctx context.Context) ([]Inquiry, error) {
	return s.col.Query(ctx, docstore.NewQuery().OrderBy("createdAt", docstore.Descending))
}

func (s *service) ListByCategory(ctx context.Context, category enums.InquiryCategory) ([]Inquiry, error) {
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid inquiry category")
	}
	return s.col.Query(ctx, docstore.NewQuery().
		Eq("category", string(category)).
		OrderBy("createdAt", docstore.Descending))
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.col.Remove(ctx, id)
}
