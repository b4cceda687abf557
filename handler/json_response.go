package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/authservice/pkg/binder"
	"github.com/dmitrymomot/authservice/pkg/validator"
)

// JSONResponse is the envelope of every JSON body.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithJSONMeta adds metadata to response
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) {
		r.body.Meta = meta
	}
}

// JSON wraps v in the "data" field with status 200. A JSONResponse is sent
// as is and an error is rendered like JSONError.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK}

	switch val := v.(type) {
	case JSONResponse:
		r.body = val
	case error:
		r.status, r.body.Error = Classify(val)
	default:
		r.body.Data = v
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders err in the "error" field with the status chosen by Classify.
func JSONError(err error, opts ...JSONOption) Response {
	r := &jsonResponse{}
	r.status, r.body.Error = Classify(err)

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Classify maps err to a status code and a public error detail:
//
//   - validator.ValidationErrors: 422 with per-field details
//   - media type binder errors: 415
//   - other binder errors: 400
//   - HTTPError anywhere in the chain: its code, key and message
//   - anything else: 500 without leaking the error text
func Classify(err error) (int, *ErrorDetail) {
	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
		return http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    "validation_error",
			Message: "validation failed",
			Details: verrs.Map(),
		}
	}

	switch {
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return http.StatusUnsupportedMediaType, &ErrorDetail{
			Code:    ErrUnsupportedMediaType.Key,
			Message: err.Error(),
		}
	case binder.IsBindError(err):
		return http.StatusBadRequest, &ErrorDetail{
			Code:    ErrBadRequest.Key,
			Message: err.Error(),
		}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, &ErrorDetail{
			Code:    httpErr.Key,
			Message: httpErr.Message(),
		}
	}

	return http.StatusInternalServerError, &ErrorDetail{
		Code:    ErrInternalServerError.Key,
		Message: "internal server error",
	}
}
