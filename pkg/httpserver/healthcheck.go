package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/authservice/pkg/logger"
)

// LivenessResponse is the body of LivenessHandler.
type LivenessResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	Environment string `json:"environment"`
}

// LivenessHandler reports that the process is up. It never consults
// dependencies.
func LivenessHandler(environment string, startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, LivenessResponse{
			Status:      "ok",
			Uptime:      time.Since(startedAt).Round(time.Second).String(),
			Environment: environment,
		})
	}
}

// ReadinessHandler runs every check with the request context. It responds
// 200 {"status":"ready"} when all succeed and 503 {"status":"not_ready"}
// on the first failure.
func ReadinessHandler(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.WarnContext(r.Context(), "readiness check failed", logger.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
