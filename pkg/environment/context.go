package environment

import "context"

type contextKey struct{}

// WithContext adds environment to context
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext retrieves environment from context.
// Returns an empty Environment when none was attached.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return env
}

func IsProduction(ctx context.Context) bool {
	return FromContext(ctx).IsProduction()
}

func IsTesting(ctx context.Context) bool {
	return FromContext(ctx).IsTesting()
}

func IsDevelopment(ctx context.Context) bool {
	return FromContext(ctx).IsDevelopment()
}
