package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campusweb/portal-backend/api/middleware"
	"github.com/campusweb/portal-backend/api/responses"
	"github.com/campusweb/portal-backend/api/validators"
	"github.com/campusweb/portal-backend/internal/forum"
	"github.com/campusweb/portal-backend/internal/users"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/campusweb/portal-backend/pkg/logger"
)

type forumPostRequest struct {
	CourseID string `json:"courseId,omitempty"`
	Content  string `json:"content" validate:"required"`
}

// ForumPost publishes a message under the authenticated user's display name
// and responds once the store has confirmed the write.
func ForumPost(svc forum.Service, userSvc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forumPostRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		user, err := userSvc.GetByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Send(r.Context(), req.CourseID, user.Name, req.Content)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// ForumList returns messages newest first, narrowed by courseId, sender
// or an RFC 3339 from/to range. Without a filter it returns the latest
// messages across all courses, capped by `limit`.
func ForumList(svc forum.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			list []forum.Message
			err  error
		)
		from := strings.TrimSpace(r.URL.Query().Get("from"))
		to := strings.TrimSpace(r.URL.Query().Get("to"))
		switch {
		case strings.TrimSpace(r.URL.Query().Get("courseId")) != "":
			list, err = svc.ListByCourse(r.Context(), r.URL.Query().Get("courseId"))
		case strings.TrimSpace(r.URL.Query().Get("sender")) != "":
			list, err = svc.ListBySender(r.Context(), r.URL.Query().Get("sender"))
		case from != "" && to != "":
			var start, end time.Time
			if start, err = time.Parse(time.RFC3339, from); err == nil {
				end, err = time.Parse(time.RFC3339, to)
			}
			if err != nil {
				err = pkgerrors.New(pkgerrors.CodeValidation, "from and to must be RFC 3339 timestamps")
			} else {
				list, err = svc.ListBetween(r.Context(), start, end)
			}
		default:
			var limit int
			if limit, err = validators.ParseQueryInt(r, "limit", 100, 1, 1000); err == nil {
				list, err = svc.ListRecent(r.Context(), limit)
			}
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ForumStream pushes thread snapshots over server-sent events. Each event
// carries the full ordered thread so clients never apply partial diffs.
func ForumStream(svc forum.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		courseID := strings.TrimSpace(r.URL.Query().Get("courseId"))
		sub, err := svc.Stream(r.Context(), courseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer sub.Cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case snapshot, open := <-sub.Snapshots():
				if !open {
					if err := sub.Err(); err != nil && logg != nil {
						logg.Error(r.Context(), "forum stream closed", err)
					}
					return
				}
				payload, err := json.Marshal(snapshot)
				if err != nil {
					if logg != nil {
						logg.Error(r.Context(), "encoding forum snapshot", err)
					}
					return
				}
				if _, err := w.Write([]byte("data: ")); err != nil {
					return
				}
				if _, err := w.Write(payload); err != nil {
					return
				}
				if _, err := w.Write([]byte("\n\n")); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

func ForumDelete(svc forum.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "messageId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
