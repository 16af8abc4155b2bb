package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusweb/portal-backend/api/controllers"
	"github.com/campusweb/portal-backend/api/middleware"
	"github.com/campusweb/portal-backend/internal/auth"
	"github.com/campusweb/portal-backend/internal/courses"
	"github.com/campusweb/portal-backend/internal/events"
	"github.com/campusweb/portal-backend/internal/facilities"
	"github.com/campusweb/portal-backend/internal/forum"
	"github.com/campusweb/portal-backend/internal/inquiries"
	"github.com/campusweb/portal-backend/internal/lostfound"
	"github.com/campusweb/portal-backend/internal/students"
	"github.com/campusweb/portal-backend/internal/tasks"
	"github.com/campusweb/portal-backend/internal/users"
	"github.com/campusweb/portal-backend/pkg/auth/session"
	"github.com/campusweb/portal-backend/pkg/config"
	"github.com/campusweb/portal-backend/pkg/enums"
	"github.com/campusweb/portal-backend/pkg/logger"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry
	Sessions session.AccessSessionChecker
	Pingers  map[string]controllers.Pinger

	Auth       auth.Service
	Users      users.Service
	Students   students.Service
	Events     events.Service
	Tasks      tasks.Service
	Facilities facilities.Service
	Courses    courses.Service
	Forum      forum.Service
	LostFound  lostfound.Service
	Inquiries  inquiries.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	staff := []string{string(enums.UserRoleLecturer), string(enums.UserRoleAdmin)}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Pingers))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(d.Auth, logg))
		r.Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(d.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.CurrentUser(d.Users, logg))
			r.Patch("/me", controllers.UpdateProfile(d.Users, logg))
			r.Get("/me/menu", controllers.CurrentUserMenu(d.Users, logg))
			r.With(middleware.RequireRole(logg, string(enums.UserRoleAdmin))).Get("/", controllers.ListUsers(d.Users, logg))
			r.With(middleware.RequireRole(logg, string(enums.UserRoleAdmin))).Delete("/{userId}", controllers.DeleteUser(d.Users, logg))
		})

		r.Route("/students", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, staff...))
			r.Get("/", controllers.StudentList(d.Students, logg))
			r.Post("/", controllers.StudentCreate(d.Students, logg))
			r.Get("/{studentId}", controllers.StudentDetail(d.Students, logg))
			r.Put("/{studentId}", controllers.StudentUpdate(d.Students, logg))
			r.Patch("/{studentId}", controllers.StudentPatch(d.Students, logg))
			r.Delete("/{studentId}", controllers.StudentDelete(d.Students, logg))
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", controllers.EventList(d.Events, logg))
			r.Get("/{eventId}", controllers.EventDetail(d.Events, logg))
			r.With(middleware.RequireRole(logg, staff...)).Post("/", controllers.EventCreate(d.Events, logg))
			r.With(middleware.RequireRole(logg, staff...)).Put("/{eventId}", controllers.EventUpdate(d.Events, logg))
			r.With(middleware.RequireRole(logg, staff...)).Delete("/{eventId}", controllers.EventDelete(d.Events, logg))
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", controllers.TaskList(d.Tasks, logg))
			r.Get("/me", controllers.MyTasks(d.Tasks, logg))
			r.Get("/{taskId}", controllers.TaskDetail(d.Tasks, logg))
			r.Post("/{taskId}/status", controllers.TaskSetStatus(d.Tasks, logg))
			r.With(middleware.RequireRole(logg, staff...)).Post("/", controllers.TaskCreate(d.Tasks, logg))
			r.With(middleware.RequireRole(logg, staff...)).Put("/{taskId}", controllers.TaskUpdate(d.Tasks, logg))
			r.With(middleware.RequireRole(logg, staff...)).Delete("/{taskId}", controllers.TaskDelete(d.Tasks, logg))
		})

		r.Route("/facilities", func(r chi.Router) {
			r.Get("/", controllers.FacilityList(d.Facilities, logg))
			r.Get("/{facilityId}", controllers.FacilityDetail(d.Facilities, logg))
			r.Post("/{facilityId}/rating", controllers.FacilityRate(d.Facilities, logg))
			r.With(middleware.RequireRole(logg, staff...)).Post("/", controllers.FacilityCreate(d.Facilities, logg))
			r.With(middleware.RequireRole(logg, staff...)).Post("/{facilityId}/status", controllers.FacilitySetStatus(d.Facilities, logg))
			r.With(middleware.RequireRole(logg, string(enums.UserRoleAdmin))).Delete("/{facilityId}", controllers.FacilityDelete(d.Facilities, logg))
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", controllers.CourseList(d.Courses, logg))
			r.Get("/me", controllers.MyCourses(d.Courses, logg))
			r.Get("/{courseId}", controllers.CourseDetail(d.Courses, logg))
			r.With(middleware.RequireRole(logg, staff...)).Post("/", controllers.CourseCreate(d.Courses, logg))
			r.With(middleware.RequireRole(logg, staff...)).Put("/{courseId}", controllers.CourseUpdate(d.Courses, logg))
			r.With(middleware.RequireRole(logg, staff...)).Post("/{courseId}/enroll", controllers.CourseEnroll(d.Courses, logg))
			r.With(middleware.RequireRole(logg, staff...)).Post("/{courseId}/unenroll", controllers.CourseUnenroll(d.Courses, logg))
			r.With(middleware.RequireRole(logg, string(enums.UserRoleAdmin))).Delete("/{courseId}", controllers.CourseDelete(d.Courses, logg))
		})

		r.Route("/forum", func(r chi.Router) {
			r.Get("/messages", controllers.ForumList(d.Forum, logg))
			r.Get("/stream", controllers.ForumStream(d.Forum, logg))
			r.Post("/messages", controllers.ForumPost(d.Forum, d.Users, logg))
			r.With(middleware.RequireRole(logg, staff...)).Delete("/messages/{messageId}", controllers.ForumDelete(d.Forum, logg))
		})

		r.Route("/lost-found", func(r chi.Router) {
			r.Get("/", controllers.LostFoundList(d.LostFound, logg))
			r.Post("/", controllers.LostFoundCreate(d.LostFound, logg))
			r.Get("/{reportId}", controllers.LostFoundDetail(d.LostFound, logg))
			r.Put("/{reportId}", controllers.LostFoundUpdate(d.LostFound, logg))
			r.With(middleware.RequireRole(logg, staff...)).Delete("/{reportId}", controllers.LostFoundDelete(d.LostFound, logg))
		})

		r.Route("/inquiries", func(r chi.Router) {
			r.Post("/", controllers.InquiryCreate(d.Inquiries, logg))
			r.With(middleware.RequireRole(logg, staff...)).Get("/", controllers.InquiryList(d.Inquiries, logg))
			r.With(middleware.RequireRole(logg, staff...)).Get("/{inquiryId}", controllers.InquiryDetail(d.Inquiries, logg))
			r.With(middleware.RequireRole(logg, staff...)).Delete("/{inquiryId}", controllers.InquiryDelete(d.Inquiries, logg))
		})
	})

	return r
}
