// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// New builds a *slog.Logger from a set of Option functions. Options select the
// output format (text or json), the minimum level, static attributes applied to
// every record and ContextExtractor callbacks that pull request-scoped values
// such as the request id out of the context on each Handle call.
//
// WithEnvironment applies per-deployment presets: text output at debug level in
// development, text output at info level in testing and JSON at info level in
// production. WithSilent routes everything to io.Discard, which is how the
// service honours the LOG_SILENT flag during test runs.
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "authservice"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "mongo connected",
//		logger.Component("mongo"),
//		logger.Attempt(2),
//	)
//
// Helper constructors in attr.go keep attribute keys consistent across
// packages; helpers receiving nil values return an empty slog.Attr which slog
// drops.
package logger
