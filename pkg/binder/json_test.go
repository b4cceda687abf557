package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authservice/pkg/binder"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func newJSONRequest(method, body, contentType string) *http.Request {
	req := httptest.NewRequest(method, "/users", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestJSON(t *testing.T) {
	t.Parallel()

	bind := binder.JSON()

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()
		req := newJSONRequest(http.MethodPost, `{"email":"a@b.co","password":" secret ","name":"Ann"}`, "application/json; charset=utf-8")

		var got createUserRequest
		require.NoError(t, bind(req, &got))
		assert.Equal(t, "a@b.co", got.Email)
		// Values are bound verbatim; normalisation belongs to the domain.
		assert.Equal(t, " secret ", got.Password)
		assert.Equal(t, "Ann", got.Name)
	})

	tests := []struct {
		name        string
		body        string
		contentType string
		wantErr     error
	}{
		{name: "missing content type", body: `{}`, wantErr: binder.ErrMissingContentType},
		{name: "wrong content type", body: `{}`, contentType: "text/plain", wantErr: binder.ErrUnsupportedMediaType},
		{name: "malformed content type", body: `{}`, contentType: "application/json; =", wantErr: binder.ErrUnsupportedMediaType},
		{name: "empty body", body: ``, contentType: "application/json", wantErr: binder.ErrFailedToParseJSON},
		{name: "invalid json", body: `{"email":`, contentType: "application/json", wantErr: binder.ErrFailedToParseJSON},
		{name: "unknown field", body: `{"role":"admin"}`, contentType: "application/json", wantErr: binder.ErrFailedToParseJSON},
		{name: "wrong type", body: `{"email":42}`, contentType: "application/json", wantErr: binder.ErrFailedToParseJSON},
		{name: "trailing data", body: `{"email":"a@b.co"}{"email":"c@d.co"}`, contentType: "application/json", wantErr: binder.ErrFailedToParseJSON},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", binder.DefaultMaxJSONSize) + `"}`, contentType: "application/json", wantErr: binder.ErrFailedToParseJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got createUserRequest
			err := bind(newJSONRequest(http.MethodPost, tt.body, tt.contentType), &got)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, binder.IsBindError(err))
		})
	}

	t.Run("get without body is not applicable", func(t *testing.T) {
		t.Parallel()
		var got createUserRequest
		err := bind(httptest.NewRequest(http.MethodGet, "/users", nil), &got)
		assert.ErrorIs(t, err, binder.ErrBinderNotApplicable)
		assert.False(t, binder.IsBindError(err))
	})
}
