package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
)

// Logging logs gRPC calls and their results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleGRPC logs method name, duration and status for each unary call.
func (l *Logging) HandleGRPC(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	l.log(info.FullMethod, start, err)
	return resp, err
}

// HandleStream does the same for streaming calls such as health Watch.
func (l *Logging) HandleStream(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	start := time.Now()
	err := handler(srv, ss)
	l.log(info.FullMethod, start, err)
	return err
}

func (l *Logging) log(method string, start time.Time, err error) {
	code := status.Code(err)
	if err != nil {
		if _, ok := status.FromError(err); !ok {
			code = codes.Internal
		}
	}

	l.logger.Debug("gRPC request completed",
		"method", method,
		"duration_ms", time.Since(start).Milliseconds(),
		"status", code.String())

	if err != nil && code != codes.Canceled {
		l.logger.Error("gRPC request failed",
			"method", method,
			"error", err.Error(),
			"status", code.String())
	}
}
