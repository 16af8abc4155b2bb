package lostfound

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campusweb/portal-backend/pkg/docstore"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
)

// Collection is the collection name reports live under.
const Collection = "lostFound"

// Service defines lost and found operations.
type Service interface {
	Create(ctx context.Context, report Report) (Report, error)
	GetByID(ctx context.Context, id string) (Report, error)
	List(ctx context.Context) ([]Report, error)
	ListByType(ctx context.Context, reportType enums.ReportType) ([]Report, error)
	Update(ctx context.Context, report Report) error
	Patch(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type service struct {
	col *docstore.Collection[Report]
	now func() time.Time
}

// NewService wires lost and found dependencies.
func NewService(col *docstore.Collection[Report]) (Service, error) {
	if col == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "lost-found collection required")
	}
	return &service{col: col, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, report Report) (Report, error) {
	if !report.Type.IsValid() {
		return Report{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid report type")
	}
	if strings.TrimSpace(report.ItemName) == "" {
		return Report{}, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if strings.TrimSpace(report.User) == "" {
		return Report{}, pkgerrors.New(pkgerrors.CodeValidation, "reporting user required")
	}

	if report.ID == "" {
		id, err := s.nextReportID(ctx)
		if err != nil {
			return Report{}, err
		}
		report.ID = id
	}
	if report.Timestamp == "" {
		report.Timestamp = s.now().UTC().Format(time.RFC3339)
	}

	if err := s.col.Insert(ctx, report); err != nil {
		return Report{}, err
	}
	return report, nil
}

// nextReportID assigns sequential display IDs of the form LF-001,
// LF-002, based on the current report count.
func (s *service) nextReportID(ctx context.Context) (string, error) {
	existing, err := s.col.List(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LF-%03d", len(existing)+1), nil
}

func (s *service) GetByID(ctx context.Context, id string) (Report, error) {
	return s.col.GetByID(ctx, id)
}

// List returns all reports, newest first.
func (s *service) List(ctx context.Context) ([]Report, error) {
	return s.col.Query(ctx, docstore.NewQuery().OrderBy("timestamp", docstore.Descending))
}

func (s *service) ListByType(ctx context.Context, reportType enums.ReportType) ([]Report, error) {
	if !reportType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid report type")
	}
	return s.col.Query(ctx, docstore.NewQuery().
		Eq("type", string(reportType)).
		OrderBy("timestamp", docstore.Descending))
}

func (s *service) Update(ctx context.Context, report Report) error {
	if strings.TrimSpace(report.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "report id required")
	}
	return s.col.Replace(ctx, report)
}

func (s *service) Patch(ctx context.Context, id string, fields map[string]any) error {
	return s.col.Patch(ctx, id, fields)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.col.Remove(ctx, id)
}
