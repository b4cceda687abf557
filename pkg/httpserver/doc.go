// Package httpserver runs an http.Handler with graceful shutdown.
//
// Run blocks until its context is cancelled, SIGINT/SIGTERM is received or
// the listener fails. In-flight requests are drained within the configured
// shutdown timeout, then stop hooks run in registration order. Stop hooks are
// where long-lived resources such as database connections are released; their
// errors surface from Run wrapped with ErrShutdown.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(ctx context.Context, _ *slog.Logger) error {
//			return db.Disconnect(ctx)
//		}),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// LivenessHandler and ReadinessHandler provide JSON probe endpoints.
package httpserver
