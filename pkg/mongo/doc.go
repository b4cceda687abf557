// Package mongo manages the lifecycle of the service's single MongoDB
// connection: environment-driven configuration, connect with fixed-delay
// retry, deduplication of concurrent connection attempts, lifecycle events,
// disconnect and health checks.
//
// # Configuration
//
// ResolveConfig reads the environment on every call (it is never cached) and
// derives the retry policy from the deployment mode in APP_ENV:
//
//	mode         database                    attempts  delay
//	production   MONGODB_DATABASE            5         2s
//	testing      MONGODB_DATABASE + "_test"  1         500ms
//	development  MONGODB_DATABASE            3         1s
//
// In testing mode MONGODB_TEST_DATABASE overrides the derived name. Credentials
// from MONGODB_USERNAME and MONGODB_PASSWORD are attached only when both are set.
//
// # Connection lifecycle
//
//	m := mongo.NewManager(mongo.WithLogger(log))
//	if _, err := m.Initialize(ctx); err != nil {
//		return err
//	}
//	defer m.Disconnect(context.Background())
//
//	db, err := m.Database()
//
// Connect returns the existing handle while it reports StateConnected.
// Otherwise callers join a single in-flight attempt which dials up to
// RetryAttempts times, sleeping RetryDelay between attempts. When every attempt
// fails the error wraps ErrConnectionFailed, names the attempt count and keeps
// the last cause in the chain.
//
// Driver heartbeats are translated into connected, error, disconnected and
// reconnected events. An error event alone does not clear the connected flag;
// IsConnected additionally checks the handle's live ReadyState.
//
// # Health checks
//
// HealthCheck never fails: it returns StatusUnhealthy with a reason when the
// manager is not connected or when the ping fails. Healthcheck adapts it to a
// func(context.Context) error for readiness probes.
package mongo
