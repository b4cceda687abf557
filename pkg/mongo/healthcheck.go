package mongo

import (
	"context"
	"errors"
	"fmt"
)

// HealthStatus is the composite status reported by HealthCheck.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResult is produced fresh on every HealthCheck call.
type HealthCheckResult struct {
	Status  HealthStatus   `json:"status"`
	Details map[string]any `json:"details"`
}

// HealthCheck probes the live connection with a single ping. It never returns
// an error: every failure is reported as StatusUnhealthy with details.
func (m *Manager) HealthCheck(ctx context.Context) (res HealthCheckResult) {
	defer func() {
		if r := recover(); r != nil {
			res = unhealthy(m.Info(), "error", fmt.Sprintf("health check panicked: %v", r))
		}
	}()

	conn, ok := m.ready()
	if !ok {
		return unhealthy(m.Info(), "reason", "not connected")
	}

	if err := conn.Ping(ctx); err != nil {
		return unhealthy(m.Info(), "error", errors.Join(ErrPingFailed, err).Error())
	}

	return HealthCheckResult{
		Status: StatusHealthy,
		Details: map[string]any{
			"connection": m.Info(),
			"ping":       "successful",
		},
	}
}

func unhealthy(info ConnectionInfo, key, msg string) HealthCheckResult {
	return HealthCheckResult{
		Status: StatusUnhealthy,
		Details: map[string]any{
			"connection": info,
			key:          msg,
		},
	}
}

// Healthcheck adapts HealthCheck to the func(context.Context) error shape
// used by readiness probes.
func Healthcheck(m *Manager) func(context.Context) error {
	return func(ctx context.Context) error {
		res := m.HealthCheck(ctx)
		if res.Status == StatusHealthy {
			return nil
		}
		cause := res.Details["reason"]
		if cause == nil {
			cause = res.Details["error"]
		}
		return fmt.Errorf("%w: %v", ErrHealthcheckFailed, cause)
	}
}
