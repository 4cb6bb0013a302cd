package router

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/shehanaraph-lab/Finnacle/internal/api/grpc/middleware"
	"github.com/shehanaraph-lab/Finnacle/internal/logger"
)

// Router builds the gRPC server exposing the health service.
type Router struct {
	health *health.Server
	logger *logger.Logger
}

// New creates a new gRPC Router around the given health server.
func New(health *health.Server, logger *logger.Logger) *Router {
	return &Router{
		health: health,
		logger: logger,
	}
}

// Register creates the server with logging and recovery interceptors and
// registers the health and reflection services.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recovery := middleware.NewRecovery(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.Unary(),
		),
		grpc.ChainStreamInterceptor(
			logging.HandleStream,
			recovery.Stream(),
		),
	)
	healthpb.RegisterHealthServer(s, r.health)
	reflection.Register(s)

	return s
}
