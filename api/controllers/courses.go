package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campusweb/portal-backend/api/middleware"
	"github.com/campusweb/portal-backend/api/responses"
	"github.com/campusweb/portal-backend/api/validators"
	"github.com/campusweb/portal-backend/internal/courses"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/campusweb/portal-backend/pkg/logger"
)

type enrollmentRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}

func CourseCreate(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var course courses.Course
		if err := validators.DecodeJSONBody(r, &course); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), course)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// CourseList supports optional status and instructor filters.
func CourseList(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			list []courses.Course
			err  error
		)
		switch {
		case strings.TrimSpace(r.URL.Query().Get("status")) != "":
			list, err = svc.ListByStatus(r.Context(), enums.CourseStatus(r.URL.Query().Get("status")))
		case strings.TrimSpace(r.URL.Query().Get("instructor")) != "":
			list, err = svc.ListByInstructor(r.Context(), r.URL.Query().Get("instructor"))
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

// MyCourses returns the courses the authenticated student is enrolled in.
func MyCourses(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := middleware.StudentIDFromContext(r.Context())
		if studentID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "no linked student record"))
			return
		}
		list, err := svc.ListForStudent(r.Context(), studentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CourseDetail(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		course, err := svc.GetByID(r.Context(), chi.URLParam(r, "courseId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, course)
	}
}

func CourseUpdate(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var course courses.Course
		if err := validators.DecodeJSONBody(r, &course); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		course.ID = chi.URLParam(r, "courseId")
		if err := svc.Update(r.Context(), course); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, course)
	}
}

func CourseEnroll(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req enrollmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Enroll(r.Context(), chi.URLParam(r, "courseId"), req.StudentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "enrolled"})
	}
}

func CourseUnenroll(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req enrollmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Unenroll(r.Context(), chi.URLParam(r, "courseId"), req.StudentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unenrolled"})
	}
}

func CourseDelete(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "courseId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
