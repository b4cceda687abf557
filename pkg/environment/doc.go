// Package environment carries the deployment mode of the service (development,
// testing or production) through context.Context, HTTP requests and structured logs.
//
// The mode is read once from the APP_ENV variable by the service bootstrap and
// normalised with Parse, which also accepts the short aliases "dev", "test" and
// "prod". Unknown or empty values fall back to Development.
//
// # Usage
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//
//	r := chi.NewRouter()
//	r.Use(environment.Middleware(env))
//
//	if environment.IsProduction(ctx) {
//		// production-only behaviour
//	}
//
// LoggerExtractor plugs into pkg/logger so every record emitted with a request
// context carries an "env" attribute.
package environment
