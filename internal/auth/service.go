package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/campusweb/portal-backend/internal/users"
	pkgauth "github.com/campusweb/portal-backend/pkg/auth"
	"github.com/campusweb/portal-backend/pkg/auth/session"
	"github.com/campusweb/portal-backend/pkg/config"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/campusweb/portal-backend/pkg/security"
	"github.com/google/uuid"
)

// sessionManager is the refresh-session surface the service needs,
// satisfied by session.Manager.
type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// RegisterInput carries the sign-up form fields.
type RegisterInput struct {
	Name      string         `json:"name" validate:"required"`
	Email     string         `json:"email" validate:"required,email"`
	Password  string         `json:"password" validate:"required,min=8"`
	Role      enums.UserRole `json:"role" validate:"required"`
	Phone     string         `json:"phone,omitempty"`
	Age       int            `json:"age,omitempty"`
	City      string         `json:"city,omitempty"`
	Gender    enums.Gender   `json:"gender,omitempty"`
	StudentID string         `json:"studentId,omitempty"`
}

// TokenPair is an access/refresh credential set issued on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult bundles issued credentials with the authenticated account.
type LoginResult struct {
	Tokens TokenPair        `json:"tokens"`
	User   users.PublicUser `json:"user"`
}

// Service defines authentication operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (users.PublicUser, error)
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

type service struct {
	users    users.Service
	sessions sessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	now      func() time.Time
}

// NewService wires authentication dependencies.
func NewService(userSvc users.Service, sessions sessionManager, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig) (Service, error) {
	if userSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users service required")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session manager required")
	}
	return &service{
		users:    userSvc,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		now:      time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (users.PublicUser, error) {
	if len(input.Password) < 8 {
		return users.PublicUser{}, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return users.PublicUser{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	created, err := s.users.Create(ctx, users.User{
		Name:         input.Name,
		Email:        input.Email,
		Role:         input.Role,
		Phone:        input.Phone,
		Age:          input.Age,
		City:         input.City,
		Gender:       input.Gender,
		StudentID:    input.StudentID,
		PasswordHash: hash,
	})
	if err != nil {
		return users.PublicUser{}, err
	}
	return created.Public(), nil
}

func (s *service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return LoginResult{}, invalidCredentials()
		}
		return LoginResult{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return LoginResult{}, invalidCredentials()
	}

	accessID := session.NewAccessID()
	accessToken, err := s.mint(user, accessID)
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}
	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing refresh session")
	}

	return LoginResult{
		Tokens: TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
		User:   user.Public(),
	}, nil
}

// Refresh rotates the refresh session and re-mints the access token. The
// expired access token is accepted here so its jti can locate the session.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (TokenPair, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return TokenPair{}, invalidCredentials()
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return TokenPair{}, invalidCredentials()
		}
		return TokenPair{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotating refresh session")
	}

	user, err := s.users.GetByID(ctx, claims.UserID.String())
	if err != nil {
		return TokenPair{}, err
	}
	newAccess, err := s.mint(user, newAccessID)
	if err != nil {
		return TokenPair{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return TokenPair{AccessToken: newAccess, RefreshToken: newRefresh}, nil
}

func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return invalidCredentials()
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking refresh session")
	}
	return nil
}

func (s *service) mint(user users.User, accessID string) (string, error) {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return "", err
	}
	payload := pkgauth.AccessTokenPayload{
		UserID: userID,
		Role:   user.Role,
		JTI:    accessID,
	}
	if strings.TrimSpace(user.StudentID) != "" {
		studentID := user.StudentID
		payload.StudentID = &studentID
	}
	return pkgauth.MintAccessToken(s.jwtCfg, s.now(), payload)
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}
