package environment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authservice/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want environment.Environment
	}{
		{in: "production", want: environment.Production},
		{in: "prod", want: environment.Production},
		{in: " PRODUCTION ", want: environment.Production},
		{in: "testing", want: environment.Testing},
		{in: "test", want: environment.Testing},
		{in: "development", want: environment.Development},
		{in: "dev", want: environment.Development},
		{in: "", want: environment.Development},
		{in: "staging", want: environment.Development},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, environment.Parse(tt.in))
		})
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("stores and retrieves environment", func(t *testing.T) {
		t.Parallel()
		ctx := environment.WithContext(context.Background(), environment.Testing)
		assert.Equal(t, environment.Testing, environment.FromContext(ctx))
		assert.True(t, environment.IsTesting(ctx))
		assert.False(t, environment.IsProduction(ctx))
		assert.False(t, environment.IsDevelopment(ctx))
	})

	t.Run("empty without value", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, environment.FromContext(context.Background()))
		//nolint:staticcheck // nil context is handled explicitly
		assert.Empty(t, environment.FromContext(nil))
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got environment.Environment
	h := environment.Middleware(environment.Production)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = environment.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, environment.Production, got)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := environment.LoggerExtractor()

	attr, ok := extract(environment.WithContext(context.Background(), environment.Development))
	require.True(t, ok)
	assert.Equal(t, "env", attr.Key)
	assert.Equal(t, "development", attr.Value.String())

	_, ok = extract(context.Background())
	assert.False(t, ok)
}
