package courses

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
	col, err := docstore.NewCollection[Course](Collection, memory.New())
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	svc, err := NewService(col)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestEnrollAndListForStudent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	algo, err := svc.Create(ctx, Course{Name: "Algorithms", Code: "CS201", Instructor: "Dr. Peretz"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	linear, err := svc.Create(ctx, Course{Name: "Linear Algebra", Code: "MA101", Instructor: "Dr. Mizrahi"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Enroll(ctx, algo.ID, "student-1"); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	// Enrolling twice must not duplicate the roster entry.
	if err := svc.Enroll(ctx, algo.ID, "student-1"); err != nil {
		t.Fatalf("re-enroll: %v", err)
	}
	if err := svc.Enroll(ctx, linear.ID, "student-2"); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	mine, err := svc.ListForStudent(ctx, "student-1")
	if err != nil {
		t.Fatalf("list for student: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != algo.ID {
		t.Fatalf("unexpected enrolment %+v", mine)
	}
	if len(mine[0].SelectedStudents) != 1 {
		t.Fatalf("duplicate roster entry: %v", mine[0].SelectedStudents)
	}
}

func TestUnenroll(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	course, err := svc.Create(ctx, Course{
		Name: "Databases", Code: "CS301",
		SelectedStudents: []string{"student-1", "student-2"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Unenroll(ctx, course.ID, "student-1"); err != nil {
		t.Fatalf("unenroll: %v", err)
	}
	// Unenrolling an absent student is a no-op.
	if err := svc.Unenroll(ctx, course.ID, "student-9"); err != nil {
		t.Fatalf("unenroll absent: %v", err)
	}

	got, err := svc.GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.SelectedStudents) != 1 || got.SelectedStudents[0] != "student-2" {
		t.Fatalf("unexpected roster %v", got.SelectedStudents)
	}
}

func TestListByStatusAndInstructor(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seed := []Course{
		{Name: "A", Code: "A1", Instructor: "Dr. Peretz", Status: enums.CourseStatusActive},
		{Name: "B", Code: "B1", Instructor: "Dr. Peretz", Status: enums.CourseStatusCompleted},
		{Name: "C", Code: "C1", Instructor: "Dr. Mizrahi", Status: enums.CourseStatusActive},
	}
	for _, c := range seed {
		if _, err := svc.Create(ctx, c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	active, err := svc.ListByStatus(ctx, enums.CourseStatusActive)
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active courses, got %d", len(active))
	}

	peretz, err := svc.ListByInstructor(ctx, "Dr. Peretz")
	if err != nil {
		t.Fatalf("list by instructor: %v", err)
	}
	if len(peretz) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(peretz))
	}
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Course{Name: "Ethics", Code: "PH101"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != enums.CourseStatusUpcoming {
		t.Fatalf("expected upcoming default, got %s", created.Status)
	}
	if created.SelectedStudents == nil {
		t.Fatal("expected empty roster, got nil")
	}

	if _, err := svc.Create(ctx, Course{Code: "X"}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
