package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/authservice/handler"
	"github.com/dmitrymomot/authservice/modules/account"
	"github.com/dmitrymomot/authservice/pkg/clientip"
	"github.com/dmitrymomot/authservice/pkg/environment"
	"github.com/dmitrymomot/authservice/pkg/httpserver"
	"github.com/dmitrymomot/authservice/pkg/mongo"
	"github.com/dmitrymomot/authservice/pkg/requestid"
)

const version = "1.0.0"

type routerDeps struct {
	env       environment.Environment
	logger    *slog.Logger
	db        *mongo.Manager
	users     account.UserService
	startedAt time.Time
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		requestid.Middleware,
		environment.Middleware(d.env),
		clientip.Middleware,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  slog.NewLogLogger(d.logger.Handler(), slog.LevelInfo),
			NoColor: true,
		}),
		handler.Recoverer(d.logger),
	)
	r.NotFound(handler.NotFound())
	r.MethodNotAllowed(handler.MethodNotAllowed())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_ = handler.JSON(map[string]string{
			"message": "Welcome to the authentication service",
			"version": version,
		}).Render(w, r)
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/", httpserver.LivenessHandler(d.env.String(), d.startedAt))
		r.Get("/database", databaseHealth(d.db))
		r.Get("/ready", httpserver.ReadinessHandler(d.logger, mongo.Healthcheck(d.db)))
	})

	r.Mount("/", account.Router(account.RouterOptions{
		Users: account.NewUsersHandler(d.users,
			account.WithLogger(d.logger),
			account.WithErrorHandler(handler.NewErrorHandler(d.logger)),
		),
	}))

	return r
}

func databaseHealth(db *mongo.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := db.HealthCheck(r.Context())
		status := http.StatusOK
		if res.Status != mongo.StatusHealthy {
			status = http.StatusServiceUnavailable
		}
		_ = handler.JSON(handler.JSONResponse{Data: res}, handler.WithJSONStatus(status)).Render(w, r)
	}
}
