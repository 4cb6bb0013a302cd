package service

import (
	"context"
	"sync"
	"time"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

const (
	CheckHealthy   = "healthy"
	CheckUnhealthy = "unhealthy"
)

// Check is a named dependency probed for readiness.
type Check struct {
	Name   string
	Pinger model.Pinger
}

// Readiness is the outcome of a readiness probe.
type Readiness struct {
	Ready  bool
	Checks map[string]string
}

// Health probes the backing services of the process.
type Health struct {
	checks  []Check
	timeout time.Duration
	started time.Time
	logger  *logger.Logger
}

func NewHealth(checks []Check, timeout time.Duration, logger *logger.Logger) *Health {
	return &Health{
		checks:  checks,
		timeout: timeout,
		started: time.Now(),
		logger:  logger,
	}
}

// Ready pings every dependency concurrently. Each ping gets its own timeout.
func (h *Health) Ready(ctx context.Context) Readiness {
	res := Readiness{
		Ready:  true,
		Checks: make(map[string]string, len(h.checks)),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, c := range h.checks {
		wg.Add(1)
		go func(c Check) {
			defer wg.Done()

			pingCtx, cancel := context.WithTimeout(ctx, h.timeout)
			defer cancel()

			status := CheckHealthy
			if err := c.Pinger.Ping(pingCtx); err != nil {
				status = CheckUnhealthy
				h.logger.Warn("Health service: dependency unreachable",
					"check", c.Name,
					"error", err.Error())
			}

			mu.Lock()
			res.Checks[c.Name] = status
			if status != CheckHealthy {
				res.Ready = false
			}
			mu.Unlock()
		}(c)
	}
	wg.Wait()

	return res
}

// Uptime reports how long the process has been serving.
func (h *Health) Uptime() time.Duration {
	return time.Since(h.started)
}
