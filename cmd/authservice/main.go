package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/authservice/modules/account"
	"github.com/dmitrymomot/authservice/pkg/auth"
	"github.com/dmitrymomot/authservice/pkg/clientip"
	"github.com/dmitrymomot/authservice/pkg/config"
	"github.com/dmitrymomot/authservice/pkg/environment"
	"github.com/dmitrymomot/authservice/pkg/httpserver"
	"github.com/dmitrymomot/authservice/pkg/logger"
	"github.com/dmitrymomot/authservice/pkg/mongo"
	"github.com/dmitrymomot/authservice/pkg/requestid"
)

func main() {
	if err := run(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		slog.Error("failed to load config", logger.Error(err))
		return err
	}

	env := environment.Parse(cfg.Env)
	opts := []logger.Option{
		logger.WithEnvironment(env, cfg.Name),
		logger.WithSilent(cfg.LogSilent),
		logger.WithContextExtractors(requestid.LoggerExtractor(), environment.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelString(cfg.LogLevel))
	}
	log := logger.New(opts...)
	logger.SetAsDefault(log)

	db := mongo.NewManager(mongo.WithLogger(log))
	if _, err := db.Initialize(ctx); err != nil {
		log.ErrorContext(ctx, "failed to connect to mongo", logger.Error(err))
		return err
	}

	storage := account.NewMongoStorage(db)
	if err := storage.EnsureIndexes(ctx); err != nil {
		log.ErrorContext(ctx, "failed to create indexes", logger.Error(err))
		_ = db.Disconnect(ctx)
		return err
	}

	users := auth.NewUserService(storage,
		auth.WithLogger(log),
		auth.WithBcryptCost(cfg.BcryptCost),
	)

	router := newRouter(routerDeps{
		env:       env,
		logger:    log,
		db:        db,
		users:     users,
		startedAt: time.Now(),
	})

	server := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(func(ctx context.Context, log *slog.Logger) error {
			log.InfoContext(ctx, "closing mongo connection")
			return db.Disconnect(ctx)
		}),
	)

	if err := server.Run(ctx, router); err != nil {
		log.ErrorContext(ctx, "server stopped with error", logger.Error(err))
		return err
	}
	return nil
}
