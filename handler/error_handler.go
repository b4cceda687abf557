package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/authservice/pkg/logger"
	"github.com/dmitrymomot/authservice/pkg/requestid"
)

func logLevel(status int) slog.Level {
	if status < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

func logError(log *slog.Logger, r *http.Request, err error, status int) {
	log.LogAttrs(r.Context(), logLevel(status), "request error",
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.Error(err),
		slog.Int("status_code", status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Component("error_handler"),
	)
}

// NewErrorHandler logs err (warn for 4xx, error for 5xx) and renders it with
// JSONError. Configure it once and pass it to every Wrap call.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = logger.Nop()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		resp := JSONError(err)
		status, _ := Classify(err)
		logError(log, r, err, status)

		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response",
				logger.RequestID(requestid.FromContext(r.Context())),
				logger.Error(renderErr),
				logger.Event("render_error"),
			)
		}
	}
}

// Recoverer turns panics in next into logged 500 JSON errors.
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func Recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.ErrorContext(r.Context(), "panic recovered",
					logger.RequestID(requestid.FromContext(r.Context())),
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					logger.Component("recoverer"),
				)
				_ = JSONError(ErrInternalServerError).Render(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// NotFound and MethodNotAllowed render router fallbacks as JSON errors.
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = JSONError(ErrNotFound).Render(w, r)
	}
}

func MethodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = JSONError(ErrMethodNotAllowed).Render(w, r)
	}
}
