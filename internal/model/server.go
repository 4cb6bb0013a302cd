package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listener a Server accepts connections on.
type SecurityLayer interface {
	Listen(network, addr string) (net.Listener, error)
}

// Server is a network front end (REST or gRPC) with a managed lifecycle.
// Start blocks until the server stops and returns nil on a graceful stop.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
