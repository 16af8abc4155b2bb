package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusweb/portal-backend/api/middleware"
	"github.com/campusweb/portal-backend/api/responses"
	"github.com/campusweb/portal-backend/api/validators"
	"github.com/campusweb/portal-backend/internal/users"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/campusweb/portal-backend/pkg/logger"
)

type updateProfileRequest struct {
	Name   string       `json:"name,omitempty"`
	Phone  string       `json:"phone,omitempty"`
	Age    int          `json:"age,omitempty"`
	City   string       `json:"city,omitempty"`
	Gender enums.Gender `json:"gender,omitempty"`
}

// CurrentUser returns the authenticated account's profile.
func CurrentUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context"))
			return
		}
		user, err := svc.GetByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user.Public())
	}
}

// UpdateProfile patches the authenticated account's editable fields.
func UpdateProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context"))
			return
		}

		var req updateProfileRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fields := map[string]any{}
		if req.Name != "" {
			fields["name"] = validators.SanitizeString(req.Name, 120)
		}
		if req.Phone != "" {
			fields["phone"] = validators.SanitizeString(req.Phone, 32)
		}
		if req.Age > 0 {
			fields["age"] = req.Age
		}
		if req.City != "" {
			fields["city"] = validators.SanitizeString(req.City, 80)
		}
		if req.Gender != "" {
			if !req.Gender.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender"))
				return
			}
			fields["gender"] = string(req.Gender)
		}

		if err := svc.Patch(r.Context(), userID, fields); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.GetByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user.Public())
	}
}

// CurrentUserMenu returns the navigation entries visible to the actor's role.
func CurrentUserMenu(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := enums.UserRole(middleware.RoleFromContext(r.Context()))
		menu, err := svc.Menu(role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, menu)
	}
}

// ListUsers narrows to one role when `role` is present.
func ListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			list []users.User
			err  error
		)
		if role := r.URL.Query().Get("role"); role != "" {
			list, err = svc.ListByRole(r.Context(), enums.UserRole(role))
		} else {
			list, err = svc.List(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		public := make([]users.PublicUser, 0, len(list))
		for _, user := range list {
			public = append(public, user.Public())
		}
		responses.WriteSuccess(w, public)
	}
}

func DeleteUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "userId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
