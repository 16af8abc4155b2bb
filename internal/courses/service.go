package courses

import (
	"context"
	"strings"

	"github.com/campusweb/portal-backend/pkg/docstore"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/google/uuid"
)

// Collection is the collection name courses live under.
const Collection = "courses"

// Service defines course catalog and enrolment operations.
type Service interface {
	Create(ctx context.Context, course Course) (Course, error)
	GetByID(ctx context.Context, id string) (Course, error)
	List(ctx context.Context) ([]Course, error)
	ListByStatus(ctx context.Context, status enums.CourseStatus) ([]Course, error)
	ListByInstructor(ctx context.Context, instructor string) ([]Course, error)
	ListForStudent(ctx context.Context, studentID string) ([]Course, error)
	Update(ctx context.Context, course Course) error
	Enroll(ctx context.Context, courseID, studentID string) error
	Unenroll(ctx context.Context, courseID, studentID string) error
	Delete(ctx context.Context, id string) error
}

type service struct {
	col *docstore.Collection[Course]
}

// NewService wires course dependencies.
func NewService(col *docstore.Collection[Course]) (Service, error) {
	if col == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "courses collection required")
	}
	return &service{col: col}, nil
}

func (s *service) Create(ctx context.Context, course Course) (Course, error) {
	if strings.TrimSpace(course.Name) == "" {
		return Course{}, pkgerrors.New(pkgerrors.CodeValidation, "course name required")
	}
	if strings.TrimSpace(course.Code) == "" {
		return Course{}, pkgerrors.New(pkgerrors.CodeValidation, "course code required")
	}
	if course.Status == "" {
		course.Status = enums.CourseStatusUpcoming
	}
	if !course.Status.IsValid() {
		return Course{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid course status")
	}

	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.SelectedStudents == nil {
		course.SelectedStudents = []string{}
	}
	if err := s.col.Insert(ctx, course); err != nil {
		return Course{}, err
	}
	return course, nil
}

func (s *service) GetByID(ctx context.Context, id string) (Course, error) {
	return s.col.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Course, error) {
	return s.col.Query(ctx, docstore.NewQuery().OrderBy("code", docstore.Ascending))
}

func (s *service) ListByStatus(ctx context.Context, status enums.CourseStatus) ([]Course, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid course status")
	}
	return s.col.Query(ctx, docstore.NewQuery().Eq("status", string(status)))
}

func (s *service) ListByInstructor(ctx context.Context, instructor string) ([]Course, error) {
	if strings.TrimSpace(instructor) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "instructor required")
	}
	return s.col.Query(ctx, docstore.NewQuery().Eq("instructor", instructor))
}

// ListForStudent filters the roster client-side; the store has no
// array-membership operator.
func (s *service) ListForStudent(ctx context.Context, studentID string) ([]Course, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "student id required")
	}

	all, err := s.col.List(ctx)
	if err != nil {
		return nil, err
	}

	enrolled := make([]Course, 0)
	for _, course := range all {
		if course.HasStudent(studentID) {
			enrolled = append(enrolled, course)
		}
	}
	return enrolled, nil
}

func (s *service) Update(ctx context.Context, course Course) error {
	if strings.TrimSpace(course.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "course id required")
	}
	return s.col.Replace(ctx, course)
}

func (s *service) Enroll(ctx context.Context, courseID, studentID string) error {
	if strings.TrimSpace(studentID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "student id required")
	}

	course, err := s.col.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.HasStudent(studentID) {
		return nil
	}

	roster := append(course.SelectedStudents, studentID)
	return s.col.Patch(ctx, courseID, map[string]any{"selectedStudents": roster})
}

func (s *service) Unenroll(ctx context.Context, courseID, studentID string) error {
	if strings.TrimSpace(studentID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "student id required")
	}

	course, err := s.col.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	roster := make([]string, 0, len(course.SelectedStudents))
	for _, id := range course.SelectedStudents {
		if id != studentID {
			roster = append(roster, id)
		}
	}
	if len(roster) == len(course.SelectedStudents) {
		return nil
	}
	return s.col.Patch(ctx, courseID, map[string]any{"selectedStudents": roster})
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.col.Remove(ctx, id)
}
