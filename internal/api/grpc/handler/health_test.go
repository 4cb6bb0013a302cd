package handler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/shehanaraph-lab/Finnacle/internal/service"
	"github.com/shehanaraph-lab/Finnacle/internal/testutil"
)

type flipReadier struct {
	ready atomic.Bool
}

func (f *flipReadier) Ready(context.Context) service.Readiness {
	return service.Readiness{Ready: f.ready.Load()}
}

func servingStatus(t *testing.T, s *health.Server, name string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.Check(context.Background(), &healthpb.HealthCheckRequest{Service: name})
	require.NoError(t, err)
	return resp.Status
}

func TestHealthWatcher_Probe(t *testing.T) {
	readier := &flipReadier{}
	srv := health.NewServer()
	w := NewHealthWatcher(readier, srv, time.Hour, testutil.MakeNoopLogger())

	readier.ready.Store(true)
	last := w.probe(context.Background(), healthpb.HealthCheckResponse_UNKNOWN)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, last)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, servingStatus(t, srv, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, servingStatus(t, srv, ServiceName))

	readier.ready.Store(false)
	last = w.probe(context.Background(), last)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, last)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(t, srv, ServiceName))
}

func TestHealthWatcher_Run_StopsOnCancel(t *testing.T) {
	readier := &flipReadier{}
	readier.ready.Store(true)
	srv := health.NewServer()
	w := NewHealthWatcher(readier, srv, 5*time.Millisecond, testutil.MakeNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		resp, err := srv.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(t, srv, ServiceName))
}
