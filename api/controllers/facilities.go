package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusweb/portal-backend/api/responses"
	"github.com/campusweb/portal-backend/api/validators"
	"github.com/campusweb/portal-backend/internal/facilities"
	"github.com/campusweb/portal-backend/pkg/enums"
	"github.com/campusweb/portal-backend/pkg/logger"
)

type facilityRatingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

type facilityStatusRequest struct {
	Status enums.FacilityStatus `json:"status" validate:"required"`
}

func FacilityCreate(svc facilities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var facility facilities.Facility
		if err := validators.DecodeJSONBody(r, &facility); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), facility)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// FacilityList narrows to one status when `status` is present.
func FacilityList(svc facilities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			list []facilities.Facility
			err  error
		)
		if status := r.URL.Query().Get("status"); status != "" {
			list, err = svc.ListByStatus(r.Context(), enums.FacilityStatus(status))
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

func FacilityDetail(svc facilities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		facility, err := svc.GetByID(r.Context(), chi.URLParam(r, "facilityId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, facility)
	}
}

// FacilityRate folds a new 1..5 rating into the running average.
func FacilityRate(svc facilities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req facilityRatingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.Rate(r.Context(), chi.URLParam(r, "facilityId"), req.Rating)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func FacilitySetStatus(svc facilities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req facilityStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetStatus(r.Context(), chi.URLParam(r, "facilityId"), req.Status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

func FacilityDelete(svc facilities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "facilityId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
