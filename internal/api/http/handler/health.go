package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shehanaraph-lab/Finnacle/internal/service"
)

type HealthService interface {
	Ready(ctx context.Context) service.Readiness
	Uptime() time.Duration
}

type Health struct {
	health      HealthService
	version     string
	environment string
}

func NewHealth(health HealthService, version, environment string) *Health {
	return &Health{
		health:      health,
		version:     version,
		environment: environment,
	}
}

type HealthResponse struct {
	Status      string  `json:"status"`
	Timestamp   float64 `json:"timestamp"`
	Version     string  `json:"version"`
	Environment string  `json:"environment"`
}

type CheckResult struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status    string                 `json:"status"`
	Timestamp float64                `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
	Version   string                 `json:"version"`
}

type LivenessResponse struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

func (h *Health) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:      "healthy",
		Timestamp:   now(),
		Version:     h.version,
		Environment: h.environment,
	})
}

// Ready reports 503 when any dependency check fails.
func (h *Health) Ready(c echo.Context) error {
	res := h.health.Ready(c.Request().Context())

	checks := make(map[string]CheckResult, len(res.Checks))
	for name, status := range res.Checks {
		checks[name] = CheckResult{Status: status}
	}

	resp := ReadinessResponse{
		Status:    "ready",
		Timestamp: now(),
		Checks:    checks,
		Version:   h.version,
	}
	code := http.StatusOK
	if !res.Ready {
		resp.Status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, resp)
}

func (h *Health) Alive(c echo.Context) error {
	return c.JSON(http.StatusOK, LivenessResponse{
		Status:    "alive",
		Timestamp: now(),
		Uptime:    h.health.Uptime().Seconds(),
	})
}

func now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
