package students

import (
	"context"
	"strings"

	"github.com/campusweb/portal-backend/pkg/docstore"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/google/uuid"
)

// Collection is the collection name students live under.
const Collection = "students"

// Service defines student registry operations.
type Service interface {
	Create(ctx context.Context, student Student) (Student, error)
	GetByID(ctx context.Context, id string) (Student, error)
	List(ctx context.Context) ([]Student, error)
	ListByStatus(ctx context.Context, status enums.StudentStatus) ([]Student, error)
	ListByDepartment(ctx context.Context, department string) ([]Student, error)
	Search(ctx context.Context, term string) ([]Student, error)
	Update(ctx context.Context, student Student) error
	Patch(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type service struct {
	col *docstore.Collection[Student]
}

// NewService wires student registry dependencies.
func NewService(col *docstore.Collection[Student]) (Service, error) {
	if col == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "students collection required")
	}
	return &service{col: col}, nil
}

func (s *service) Create(ctx context.Context, student Student) (Student, error) {
	if strings.TrimSpace(student.FirstName) == "" || strings.TrimSpace(student.LastName) == "" {
		return Student{}, pkgerrors.New(pkgerrors.CodeValidation, "first and last name required")
	}
	if strings.TrimSpace(student.Email) == "" {
		return Student{}, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if student.Status != "" && !student.Status.IsValid() {
		return Student{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid student status")
	}
	if student.Gender != "" && !student.Gender.IsValid() {
		return Student{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
	}

	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.FullName == "" {
		student.FullName = strings.TrimSpace(student.FirstName + " " + student.LastName)
	}
	if student.Status == "" {
		student.Status = enums.StudentStatusActive
	}

	if err := s.col.Insert(ctx, student); err != nil {
		return Student{}, err
	}
	return student, nil
}

func (s *service) GetByID(ctx context.Context, id string) (Student, error) {
	return s.col.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Student, error) {
	return s.col.Query(ctx, docstore.NewQuery().OrderBy("fullName", docstore.Ascending))
}

func (s *service) ListByStatus(ctx context.Context, status enums.StudentStatus) ([]Student, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid student status")
	}
	return s.col.Query(ctx, docstore.NewQuery().Eq("status", string(status)))
}

func (s *service) ListByDepartment(ctx context.Context, department string) ([]Student, error) {
	if strings.TrimSpace(department) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "department required")
	}
	return s.col.Query(ctx, docstore.NewQuery().Eq("department", department))
}

// Search matches the term against name, email and student number,
// case-insensitively. The scan is client-side, same as List.
func (s *service) Search(ctx context.Context, term string) ([]Student, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search term required")
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]Student, 0)
	for _, student := range all {
		if strings.Contains(strings.ToLower(student.FullName), term) ||
			strings.Contains(strings.ToLower(student.Email), term) ||
			strings.Contains(strings.ToLower(student.StudentNumber), term) {
			matched = append(matched, student)
		}
	}
	return matched, nil
}

func (s *service) Update(ctx context.Context, student Student) error {
	if strings.TrimSpace(student.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "student id required")
	}
	return s.col.Replace(ctx, student)
}

func (s *service) Patch(ctx context.Context, id string, fields map[string]any) error {
	return s.col.Patch(ctx, id, fields)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.col.Remove(ctx, id)
}
