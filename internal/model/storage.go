package model

import (
	"context"
	"io"
)

// Storage is an object store for user-uploaded blobs.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Transactor runs fn with stores bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	Users() UserStore
	Profiles() ProfileStore
	InTx(ctx context.Context, fn func(ctx context.Context, users UserStore, profiles ProfileStore) error) error
}

// Pinger reports reachability of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}
