package handler

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
	"github.com/shehanaraph-lab/Finnacle/internal/service"
)

// ServiceName is the gRPC health service name reported next to the overall "" status.
const ServiceName = "finnacle.Account"

// Readier runs the readiness checks.
type Readier interface {
	Ready(ctx context.Context) service.Readiness
}

// HealthWatcher keeps a grpc health server in sync with the readiness checks.
type HealthWatcher struct {
	readier  Readier
	server   *health.Server
	interval time.Duration
	logger   *logger.Logger
}

func NewHealthWatcher(readier Readier, server *health.Server, interval time.Duration, logger *logger.Logger) *HealthWatcher {
	return &HealthWatcher{
		readier:  readier,
		server:   server,
		interval: interval,
		logger:   logger,
	}
}

// Run probes immediately and then every interval until ctx is done, at which
// point every service is reported NOT_SERVING.
func (w *HealthWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	last := healthpb.HealthCheckResponse_UNKNOWN
	for {
		last = w.probe(ctx, last)

		select {
		case <-ctx.Done():
			w.server.Shutdown()
			return
		case <-ticker.C:
		}
	}
}

func (w *HealthWatcher) probe(ctx context.Context, last healthpb.HealthCheckResponse_ServingStatus) healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	if !w.readier.Ready(ctx).Ready {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}

	if st != last {
		w.logger.Info("Health watcher: serving status changed",
			"from", last.String(),
			"to", st.String())
	}

	w.server.SetServingStatus("", st)
	w.server.SetServingStatus(ServiceName, st)
	return st
}
