package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campusweb/portal-backend/api/responses"
	"github.com/campusweb/portal-backend/api/validators"
	"github.com/campusweb/portal-backend/internal/students"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/campusweb/portal-backend/pkg/logger"
)

func StudentCreate(svc students.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var student students.Student
		if err := validators.DecodeJSONBody(r, &student); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), student)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// StudentList supports optional search, status and department filters.
func StudentList(svc students.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			list []students.Student
			err  error
		)
		switch {
		case strings.TrimSpace(r.URL.Query().Get("q")) != "":
			list, err = svc.Search(r.Context(), r.URL.Query().Get("q"))
		case strings.TrimSpace(r.URL.Query().Get("status")) != "":
			status := enums.StudentStatus(r.URL.Query().Get("status"))
			list, err = svc.ListByStatus(r.Context(), status)
		case strings.TrimSpace(r.URL.Query().Get("department")) != "":
			list, err = svc.ListByDepartment(r.Context(), r.URL.Query().Get("department"))
		default:
			list, err = svc.List(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func StudentDetail(svc students.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student, err := svc.GetByID(r.Context(), chi.URLParam(r, "studentId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, student)
	}
}

func StudentUpdate(svc students.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var student students.Student
		if err := validators.DecodeJSONBody(r, &student); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		student.ID = chi.URLParam(r, "studentId")
		if err := svc.Update(r.Context(), student); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, student)
	}
}

func StudentPatch(svc students.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]any
		if err := validators.DecodeJSONBody(r, &fields); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(fields) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update"))
			return
		}
		if err := svc.Patch(r.Context(), chi.URLParam(r, "studentId"), fields); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

func StudentDelete(svc students.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "studentId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
