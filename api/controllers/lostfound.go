package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campusweb/portal-backend/api/responses"
	"github.com/campusweb/portal-backend/api/validators"
	"github.com/campusweb/portal-backend/internal/lostfound"
	"github.com/campusweb/portal-backend/pkg/enums"
	"github.com/campusweb/portal-backend/pkg/logger"
)

func LostFoundCreate(svc lostfound.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var report lostfound.Report
		if err := validators.DecodeJSONBody(r, &report); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), report)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// LostFoundList filters by report type when `type` is present.
func LostFoundList(svc lostfound.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			list []lostfound.Report
			err  error
		)
		if reportType := strings.TrimSpace(r.URL.Query().Get("type")); reportType != "" {
			list, err = svc.ListByType(r.Context(), enums.ReportType(reportType))
		} else {
			list, err = svc.List(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func LostFoundDetail(svc lostfound.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.GetByID(r.Context(), chi.URLParam(r, "reportId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func LostFoundUpdate(svc lostfound.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var report lostfound.Report
		if err := validators.DecodeJSONBody(r, &report); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		report.ID = chi.URLParam(r, "reportId")
		if err := svc.Update(r.Context(), report); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func LostFoundDelete(svc lostfound.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "reportId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
