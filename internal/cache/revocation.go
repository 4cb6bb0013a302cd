// Package cache keeps hot lookups in an in-process LRU.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bluele/gcache"

	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

var (
	_ model.RevocationStore = (*Revocations)(nil)
	_ model.Pinger          = (*Revocations)(nil)
)

type probeKey struct{}

// Revocations is a read-through cache in front of a model.RevocationStore.
// Revoke writes through and drops the cached entry; other processes observe
// a revocation once their entry expires.
type Revocations struct {
	store model.RevocationStore
	cache gcache.Cache
}

func NewRevocations(store model.RevocationStore, size int, ttl time.Duration) *Revocations {
	return &Revocations{
		store: store,
		cache: gcache.New(size).LRU().Expiration(ttl).Build(),
	}
}

func (r *Revocations) RevokedAt(ctx context.Context, externalUID string) (time.Time, error) {
	if cached, err := r.cache.Get(externalUID); err == nil {
		return cached.(time.Time), nil
	}

	at, err := r.store.RevokedAt(ctx, externalUID)
	if err != nil {
		return time.Time{}, err
	}
	_ = r.cache.Set(externalUID, at)

	return at, nil
}

func (r *Revocations) Revoke(ctx context.Context, externalUID string, at time.Time) error {
	if err := r.store.Revoke(ctx, externalUID, at); err != nil {
		return err
	}
	r.cache.Remove(externalUID)
	return nil
}

// Ping round-trips a probe entry through the cache.
func (r *Revocations) Ping(context.Context) error {
	now := time.Now()
	if err := r.cache.Set(probeKey{}, now); err != nil {
		return fmt.Errorf("failed to write cache probe: %w", err)
	}
	v, err := r.cache.Get(probeKey{})
	if err != nil {
		return fmt.Errorf("failed to read cache probe: %w", err)
	}
	if got, ok := v.(time.Time); !ok || !got.Equal(now) {
		return fmt.Errorf("cache probe mismatch")
	}
	return nil
}
