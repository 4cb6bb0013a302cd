package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shehanaraph-lab/Finnacle/internal/mocks"
)

func TestRevocations_ReadThrough(t *testing.T) {
	store := mocks.NewRevocationStore(t)
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	store.On("RevokedAt", mock.Anything, "u1").Return(at, nil).Once()

	r := NewRevocations(store, 10, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := r.RevokedAt(context.Background(), "u1")
		require.NoError(t, err)
		assert.True(t, at.Equal(got))
	}
	store.AssertNumberOfCalls(t, "RevokedAt", 1)
}

func TestRevocations_CachesNeverRevoked(t *testing.T) {
	store := mocks.NewRevocationStore(t)
	store.On("RevokedAt", mock.Anything, "u1").Return(time.Time{}, nil).Once()

	r := NewRevocations(store, 10, time.Minute)

	for i := 0; i < 2; i++ {
		got, err := r.RevokedAt(context.Background(), "u1")
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	}
}

func TestRevocations_RevokeInvalidates(t *testing.T) {
	store := mocks.NewRevocationStore(t)
	at := time.Now().UTC()
	store.On("RevokedAt", mock.Anything, "u1").Return(time.Time{}, nil).Once()
	store.On("Revoke", mock.Anything, "u1", at).Return(nil)
	store.On("RevokedAt", mock.Anything, "u1").Return(at, nil).Once()

	r := NewRevocations(store, 10, time.Minute)

	got, err := r.RevokedAt(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	require.NoError(t, r.Revoke(context.Background(), "u1", at))

	got, err = r.RevokedAt(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, at.Equal(got))
}

func TestRevocations_Errors(t *testing.T) {
	store := mocks.NewRevocationStore(t)
	store.On("RevokedAt", mock.Anything, "u1").Return(time.Time{}, errors.New("db down"))
	store.On("Revoke", mock.Anything, "u1", mock.Anything).Return(errors.New("db down"))

	r := NewRevocations(store, 10, time.Minute)

	_, err := r.RevokedAt(context.Background(), "u1")
	assert.Error(t, err)
	assert.Error(t, r.Revoke(context.Background(), "u1", time.Now()))
}

func TestRevocations_Ping(t *testing.T) {
	r := NewRevocations(mocks.NewRevocationStore(t), 10, time.Minute)
	assert.NoError(t, r.Ping(context.Background()))
}
