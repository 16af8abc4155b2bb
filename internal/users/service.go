package users

import (
	"context"
	"strings"

	"github.com/campusweb/portal-backend/pkg/docstore"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/google/uuid"
)

// Collection is the collection name users live under.
const Collection = "users"

// Service defines account operations.
type Service interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	ListByRole(ctx context.Context, role enums.UserRole) ([]User, error)
	Update(ctx context.Context, user User) error
	Patch(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	Menu(role enums.UserRole) ([]MenuItem, error)
}

type service struct {
	col *docstore.Collection[User]
}

// NewService wires user dependencies.
func NewService(col *docstore.Collection[User]) (Service, error) {
	if col == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users collection required")
	}
	return &service{col: col}, nil
}

func (s *service) Create(ctx context.Context, user User) (User, error) {
	user.Email = normalizeEmail(user.Email)
	if user.Email == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if strings.TrimSpace(user.Name) == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if !user.Role.IsValid() {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid user role")
	}
	if user.Gender != "" && !user.Gender.IsValid() {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
	}

	if _, err := s.GetByEmail(ctx, user.Email); err == nil {
		return User{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		return User{}, err
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := s.col.Insert(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *service) GetByID(ctx context.Context, id string) (User, error) {
	return s.col.GetByID(ctx, id)
}

func (s *service) GetByEmail(ctx context.Context, email string) (User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	matches, err := s.col.Query(ctx, docstore.NewQuery().Eq("email", email).Limit(1))
	if err != nil {
		return User{}, err
	}
	if len(matches) == 0 {
		return User{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return matches[0], nil
}

func (s *service) List(ctx context.Context) ([]User, error) {
	return s.col.Query(ctx, docstore.NewQuery().OrderBy("name", docstore.Ascending))
}

func (s *service) ListByRole(ctx context.Context, role enums.UserRole) ([]User, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user role")
	}
	return s.col.Query(ctx, docstore.NewQuery().
		Eq("role", string(role)).
		OrderBy("name", docstore.Ascending))
}

func (s *service) Update(ctx context.Context, user User) error {
	if strings.TrimSpace(user.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user.Email = normalizeEmail(user.Email)
	return s.col.Replace(ctx, user)
}

func (s *service) Patch(ctx context.Context, id string, fields map[string]any) error {
	if email, ok := fields["email"].(string); ok {
		fields["email"] = normalizeEmail(email)
	}
	return s.col.Patch(ctx, id, fields)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.col.Remove(ctx, id)
}

// Menu returns the navigation entries the role is allowed to see.
func (s *service) Menu(role enums.UserRole) ([]MenuItem, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user role")
	}
	return MenuFor(role), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
