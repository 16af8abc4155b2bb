package tasks

import (
	"context"
	"strings"

	"github.com/campusweb/portal-backend/internal/courses"
	"github.com/campusweb/portal-backend/pkg/docstore"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/google/uuid"
)

// Collection is the collection name tasks live under.
const Collection = "tasks"

// Service defines task operations.
type Service interface {
	Create(ctx context.Context, task Task) (Task, error)
	GetByID(ctx context.Context, id string) (Task, error)
	List(ctx context.Context) ([]Task, error)
	ListByCourse(ctx context.Context, courseID string) ([]Task, error)
	ListByStatus(ctx context.Context, status enums.TaskStatus) ([]Task, error)
	ListByType(ctx context.Context, taskType enums.TaskType) ([]Task, error)
	ListForStudent(ctx context.Context, studentID string) ([]Task, error)
	SetStatus(ctx context.Context, id string, status enums.TaskStatus) error
	Update(ctx context.Context, task Task) error
	Delete(ctx context.Context, id string) error
}

type service struct {
	col     *docstore.Collection[Task]
	courses courses.Service
}

// NewService wires task dependencies. The course service resolves which
// tasks belong to a student's enrolled courses.
func NewService(col *docstore.Collection[Task], courseSvc courses.Service) (Service, error) {
	if col == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "tasks collection required")
	}
	if courseSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "course service required")
	}
	return &service{col: col, courses: courseSvc}, nil
}

func (s *service) Create(ctx context.Context, task Task) (Task, error) {
	if strings.TrimSpace(task.Title) == "" {
		return Task{}, pkgerrors.New(pkgerrors.CodeValidation, "task title required")
	}
	if strings.TrimSpace(task.Course) == "" {
		return Task{}, pkgerrors.New(pkgerrors.CodeValidation, "task course required")
	}
	if !task.Type.IsValid() {
		return Task{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid task type")
	}
	if task.Priority == "" {
		task.Priority = enums.TaskPriorityMedium
	}
	if !task.Priority.IsValid() {
		return Task{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid task priority")
	}
	if task.Status == "" {
		task.Status = enums.TaskStatusPending
	}
	if !task.Status.IsValid() {
		return Task{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid task status")
	}

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if err := s.col.Insert(ctx, task); err != nil {
		return Task{}, err
	}
	return task, nil
}

func (s *service) GetByID(ctx context.Context, id string) (Task, error) {
	return s.col.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Task, error) {
	return s.col.Query(ctx, docstore.NewQuery().OrderBy("dueDate", docstore.Ascending))
}

func (s *service) ListByCourse(ctx context.Context, courseID string) ([]Task, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id required")
	}
	return s.col.Query(ctx, docstore.NewQuery().
		Eq("course", courseID).
		OrderBy("dueDate", docstore.Ascending))
}

func (s *service) ListByStatus(ctx context.Context, status enums.TaskStatus) ([]Task, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid task status")
	}
	return s.col.Query(ctx, docstore.NewQuery().
		Eq("status", string(status)).
		OrderBy("dueDate", docstore.Ascending))
}

func (s *service) ListByType(ctx context.Context, taskType enums.TaskType) ([]Task, error) {
	if !taskType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid task type")
	}
	return s.col.Query(ctx, docstore.NewQuery().
		Eq("type", string(taskType)).
		OrderBy("dueDate", docstore.Ascending))
}

// ListForStudent returns tasks belonging to the student's enrolled
// courses, soonest due first.
func (s *service) ListForStudent(ctx context.Context, studentID string) ([]Task, error) {
	enrolled, err := s.courses.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(enrolled) == 0 {
		return []Task{}, nil
	}

	courseIDs := make(map[string]struct{}, len(enrolled))
	for _, course := range enrolled {
		courseIDs[course.ID] = struct{}{}
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]Task, 0)
	for _, task := range all {
		if _, ok := courseIDs[task.Course]; ok {
			mine = append(mine, task)
		}
	}
	return mine, nil
}

func (s *service) SetStatus(ctx context.Context, id string, status enums.TaskStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid task status")
	}
	return s.col.Patch(ctx, id, map[string]any{"status": string(status)})
}

func (s *service) Update(ctx context.Context, task Task) error {
	if strings.TrimSpace(task.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "task id required")
	}
	return s.col.Replace(ctx, task)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.col.Remove(ctx, id)
}
