package middleware

import (
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
)

// Recovery turns handler panics into codes.Internal.
type Recovery struct {
	logger *logger.Logger
}

func NewRecovery(logger *logger.Logger) *Recovery {
	return &Recovery{logger: logger}
}

func (r *Recovery) handle(p any) error {
	r.logger.Error("gRPC handler panicked",
		"panic", p)
	return status.Error(codes.Internal, "internal server error")
}

func (r *Recovery) Unary() grpc.UnaryServerInterceptor {
	return recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(r.handle))
}

func (r *Recovery) Stream() grpc.StreamServerInterceptor {
	return recovery.StreamServerInterceptor(recovery.WithRecoveryHandler(r.handle))
}
