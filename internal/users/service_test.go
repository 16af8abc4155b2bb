package users

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
	col, err := docstore.NewCollection[User](Collection, memory.New())
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	svc, err := NewService(col)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateAndGetByEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, User{
		Name:  "Noa Levi",
		Email: "  Noa@Campus.Edu ",
		Role:  enums.UserRoleStudent,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Email != "noa@campus.edu" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}

	fetched, err := svc.GetByEmail(ctx, "NOA@campus.edu")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("expected %s, got %s", created.ID, fetched.ID)
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user := User{Name: "Noa", Email: "noa@campus.edu", Role: enums.UserRoleStudent}
	if _, err := svc.Create(ctx, user); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, user); !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []User{
		{Name: "Noa", Role: enums.UserRoleStudent},
		{Email: "a@b.c", Role: enums.UserRoleStudent},
		{Name: "Noa", Email: "a@b.c", Role: enums.UserRole("dean")},
	}
	for i, user := range cases {
		if _, err := svc.Create(ctx, user); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("case %d: expected VALIDATION_ERROR, got %v", i, err)
		}
	}
}

func TestListByRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seed := []User{
		{Name: "Noa", Email: "noa@campus.edu", Role: enums.UserRoleStudent},
		{Name: "Dr. Cohen", Email: "cohen@campus.edu", Role: enums.UserRoleLecturer},
		{Name: "Avi", Email: "avi@campus.edu", Role: enums.UserRoleStudent},
	}
	for _, user := range seed {
		if _, err := svc.Create(ctx, user); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	students, err := svc.ListByRole(ctx, enums.UserRoleStudent)
	if err != nil {
		t.Fatalf("list by role: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("expected 2 students, got %d", len(students))
	}
	if students[0].Name != "Avi" {
		t.Fatalf("expected name-ascending order, got %q first", students[0].Name)
	}

	if _, err := svc.ListByRole(ctx, enums.UserRole("dean")); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestPublicStripsPasswordHash(t *testing.T) {
	user := User{ID: "u1", Name: "Noa", Email: "noa@campus.edu", Role: enums.UserRoleAdmin, PasswordHash: "secret"}
	public := user.Public()
	if public.ID != "u1" || public.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected public view: %+v", public)
	}
}

func TestMenuFor(t *testing.T) {
	svc := newTestService(t)

	studentMenu, err := svc.Menu(enums.UserRoleStudent)
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if !hasItem(studentMenu, "learning") {
		t.Fatal("expected student menu to include learning")
	}
	if hasItem(studentMenu, "students") || hasItem(studentMenu, "debug") {
		t.Fatalf("student menu leaked staff entries: %+v", studentMenu)
	}

	lecturerMenu, err := svc.Menu(enums.UserRoleLecturer)
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if !hasItem(lecturerMenu, "students") || !hasItem(lecturerMenu, "forms") {
		t.Fatal("expected lecturer menu to include staff entries")
	}
	if hasItem(lecturerMenu, "learning") {
		t.Fatal("lecturer menu should not include learning")
	}

	if _, err := svc.Menu(enums.UserRole("dean")); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestHasPermissionForRoute(t *testing.T) {
	if users := HasPermissionForRoute(enums.UserRoleStudent, "/students"); users {
		t.Fatal("student should not reach /students")
	}
	if !HasPermissionForRoute(enums.UserRoleAdmin, "/students") {
		t.Fatal("admin should reach /students")
	}
	if !HasPermissionForRoute(enums.UserRoleStudent, "/forum") {
		t.Fatal("everyone should reach /forum")
	}
	if !HasPermissionForRoute(enums.UserRoleStudent, "/not-in-menu") {
		t.Fatal("unknown routes are open")
	}
}

func hasItem(items []MenuItem, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}
