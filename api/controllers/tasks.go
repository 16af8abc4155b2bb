package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campusweb/portal-backend/api/middleware"
	"github.com/campusweb/portal-backend/api/responses"
	"github.com/campusweb/portal-backend/api/validators"
	"github.com/campusweb/portal-backend/internal/tasks"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/campusweb/portal-backend/pkg/logger"
)

type taskStatusRequest struct {
	Status enums.TaskStatus `json:"status" validate:"required"`
}

func TaskCreate(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var task tasks.Task
		if err := validators.DecodeJSONBody(r, &task); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), task)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// TaskList filters by course, status or type when the matching query
// parameter is present.
func TaskList(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			list []tasks.Task
			err  error
		)
		switch {
		case strings.TrimSpace(r.URL.Query().Get("courseId")) != "":
			list, err = svc.ListByCourse(r.Context(), r.URL.Query().Get("courseId"))
		case strings.TrimSpace(r.URL.Query().Get("status")) != "":
			list, err = svc.ListByStatus(r.Context(), enums.TaskStatus(r.URL.Query().Get("status")))
		case strings.TrimSpace(r.URL.Query().Get("type")) != "":
			list, err = svc.ListByType(r.Context(), enums.TaskType(r.URL.Query().Get("type")))
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

// MyTasks returns the tasks of courses the authenticated student is enrolled in.
func MyTasks(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
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

func TaskDetail(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, err := svc.GetByID(r.Context(), chi.URLParam(r, "taskId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, task)
	}
}

func TaskUpdate(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var task tasks.Task
		if err := validators.DecodeJSONBody(r, &task); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		task.ID = chi.URLParam(r, "taskId")
		if err := svc.Update(r.Context(), task); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, task)
	}
}

func TaskSetStatus(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req taskStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetStatus(r.Context(), chi.URLParam(r, "taskId"), req.Status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

func TaskDelete(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "taskId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
