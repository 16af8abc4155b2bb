package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/campusweb/portal-backend/api/controllers"
	"github.com/campusweb/portal-backend/api/routes"
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
	"github.com/campusweb/portal-backend/pkg/db"
	"github.com/campusweb/portal-backend/pkg/docstore"
	"github.com/campusweb/portal-backend/pkg/docstore/gormstore"
	"github.com/campusweb/portal-backend/pkg/docstore/memory"
	"github.com/campusweb/portal-backend/pkg/docstore/redisstore"
	"github.com/campusweb/portal-backend/pkg/logger"
	"github.com/campusweb/portal-backend/pkg/metrics"
	"github.com/campusweb/portal-backend/pkg/migrate"
	"github.com/campusweb/portal-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := cfg.Docstore.Validate(); err != nil {
		logg.Error(context.Background(), "invalid docstore config", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	var closers []func() error
	closers = append(closers, redisClient.Close)

	pingers := map[string]controllers.Pinger{"redis": redisClient}

	store, dbClient, err := buildStore(ctx, cfg, logg, redisClient)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap document store", err)
		os.Exit(1)
	}
	if dbClient != nil {
		closers = append(closers, dbClient.Close)
		pingers["db"] = dbClient
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	docMetrics := metrics.NewDocstoreMetrics(registry)

	opts := []docstore.CollectionOption{
		docstore.WithLogger(logg),
		docstore.WithMetrics(docMetrics),
		docstore.WithOpTimeout(cfg.Docstore.OpTimeout),
	}

	deps, err := buildServices(cfg, store, sessionManager, opts)
	if err != nil {
		logg.Error(ctx, "failed to wire services", err)
		os.Exit(1)
	}
	deps.Config = cfg
	deps.Logger = logg
	deps.Registry = registry
	deps.Sessions = sessionManager
	deps.Pingers = pingers

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": cfg.Docstore.Driver,
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(startCtx, "graceful shutdown failed", err)
	}

	var closeErr error
	for _, closeFn := range closers {
		closeErr = multierr.Append(closeErr, closeFn())
	}
	if closeErr != nil {
		logg.Error(startCtx, "error closing backing clients", closeErr)
		os.Exit(1)
	}
	logg.Info(startCtx, "api server stopped")
}

// buildStore selects the docstore driver. The gorm drivers also return the
// underlying DB client so main can close it and run dev migrations.
func buildStore(ctx context.Context, cfg *config.Config, logg *logger.Logger, redisClient *redis.Client) (docstore.Store, *db.Client, error) {
	switch cfg.Docstore.Driver {
	case config.DocstoreDriverMemory:
		return memory.New(), nil, nil

	case config.DocstoreDriverRedis:
		store, err := redisstore.New(redisClient)
		return store, nil, err

	case config.DocstoreDriverPostgres, config.DocstoreDriverSQLite:
		dialect := db.DialectPostgres
		if cfg.Docstore.Driver == config.DocstoreDriverSQLite {
			dialect = db.DialectSQLite
		}
		dbClient, err := db.New(ctx, cfg.DB, dialect, logg)
		if err != nil {
			return nil, nil, err
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			dbClient.Close()
			return nil, nil, err
		}
		store, err := gormstore.New(dbClient, cfg.Docstore.WatchPollInterval)
		if err != nil {
			dbClient.Close()
			return nil, nil, err
		}
		return store, dbClient, nil
	}
	return nil, nil, fmt.Errorf("unknown docstore driver %q", cfg.Docstore.Driver)
}

func buildServices(cfg *config.Config, store docstore.Store, sessions *session.Manager, opts []docstore.CollectionOption) (routes.Deps, error) {
	var deps routes.Deps

	userCol, err := docstore.NewCollection[users.User](users.Collection, store, opts...)
	if err != nil {
		return deps, err
	}
	studentCol, err := docstore.NewCollection[students.Student](students.Collection, store, opts...)
	if err != nil {
		return deps, err
	}
	eventCol, err := docstore.NewCollection[events.Event](events.Collection, store, opts...)
	if err != nil {
		return deps, err
	}
	taskCol, err := docstore.NewCollection[tasks.Task](tasks.Collection, store, opts...)
	if err != nil {
		return deps, err
	}
	facilityCol, err := docstore.NewCollection[facilities.Facility](facilities.Collection, store, opts...)
	if err != nil {
		return deps, err
	}
	courseCol, err := docstore.NewCollection[courses.Course](courses.Collection, store, opts...)
	if err != nil {
		return deps, err
	}
	messageCol, err := docstore.NewCollection[forum.Message](forum.Collection, store, opts...)
	if err != nil {
		return deps, err
	}
	reportCol, err := docstore.NewCollection[lostfound.Report](lostfound.Collection, store, opts...)
	if err != nil {
		return deps, err
	}
	inquiryCol, err := docstore.NewCollection[inquiries.Inquiry](inquiries.Collection, store, opts...)
	if err != nil {
		return deps, err
	}

	if deps.Users, err = users.NewService(userCol); err != nil {
		return deps, err
	}
	if deps.Auth, err = auth.NewService(deps.Users, sessions, cfg.JWT, cfg.Password); err != nil {
		return deps, err
	}
	if deps.Students, err = students.NewService(studentCol); err != nil {
		return deps, err
	}
	if deps.Events, err = events.NewService(eventCol); err != nil {
		return deps, err
	}
	if deps.Facilities, err = facilities.NewService(facilityCol); err != nil {
		return deps, err
	}
	if deps.Courses, err = courses.NewService(courseCol); err != nil {
		return deps, err
	}
	if deps.Tasks, err = tasks.NewService(taskCol, deps.Courses); err != nil {
		return deps, err
	}
	if deps.Forum, err = forum.NewService(messageCol); err != nil {
		return deps, err
	}
	if deps.LostFound, err = lostfound.NewService(reportCol); err != nil {
		return deps, err
	}
	if deps.Inquiries, err = inquiries.NewService(inquiryCol); err != nil {
		return deps, err
	}
	return deps, nil
}
