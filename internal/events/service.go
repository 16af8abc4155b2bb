package events

import (
	"context"
	"strings"

	"github.com/campusweb/portal-backend/pkg/docstore"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/google/uuid"
)

// Collection is the collection name events live under.
const Collection = "events"

// Service defines campus event operations.
type Service interface {
	Create(ctx context.Context, event Event) (Event, error)
	GetByID(ctx context.Context, id string) (Event, error)
	List(ctx context.Context) ([]Event, error)
	ListFrom(ctx context.Context, date string) ([]Event, error)
	ListBetween(ctx context.Context, from, to string) ([]Event, error)
	ListUrgent(ctx context.Context) ([]Event, error)
	Update(ctx context.Context, event Event) error
	Delete(ctx context.Context, id string) error
}

type service struct {
	col *docstore.Collection[Event]
}

// NewService wires event dependencies.
func NewService(col *docstore.Collection[Event]) (Service, error) {
	if col == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "events collection required")
	}
	return &service{col: col}, nil
}

func (s *service) Create(ctx context.Context, event Event) (Event, error) {
	if strings.TrimSpace(event.Title) == "" {
		return Event{}, pkgerrors.New(pkgerrors.CodeValidation, "event title required")
	}
	if strings.TrimSpace(event.Date) == "" {
		return Event{}, pkgerrors.New(pkgerrors.CodeValidation, "event date required")
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if err := s.col.Insert(ctx, event); err != nil {
		return Event{}, err
	}
	return event, nil
}

func (s *service) GetByID(ctx context.Context, id string) (Event, error) {
	return s.col.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Event, error) {
	return s.col.Query(ctx, docstore.NewQuery().OrderBy("date", docstore.Ascending))
}

// ListFrom returns events on or after the given date, soonest first.
func (s *service) ListFrom(ctx context.Context, date string) ([]Event, error) {
	if strings.TrimSpace(date) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date required")
	}
	return s.col.Query(ctx, docstore.NewQuery().
		Gte("date", date).
		OrderBy("date", docstore.Ascending))
}

// ListBetween returns events within the inclusive date range, soonest
// first.
func (s *service) ListBetween(ctx context.Context, from, to string) ([]Event, error) {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from and to dates required")
	}
	return s.col.Query(ctx, docstore.NewQuery().
		Gte("date", from).
		Lte("date", to).
		OrderBy("date", docstore.Ascending))
}

// ListUrgent returns events flagged urgent, soonest first.
func (s *service) ListUrgent(ctx context.Context) ([]Event, error) {
	return s.col.Query(ctx, docstore.NewQuery().
		Eq("urgent", true).
		OrderBy("date", docstore.Ascending))
}

func (s *service) Update(ctx context.Context, event Event) error {
	if strings.TrimSpace(event.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	return s.col.Replace(ctx, event)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.col.Remove(ctx, id)
}
