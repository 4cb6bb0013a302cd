package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

func TestStore_InTx_Commit(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE username = \$1\)`).
		WithArgs("jane").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectCommit()

	err := NewStore(db).InTx(context.Background(), func(ctx context.Context, users model.UserStore, _ model.ProfileStore) error {
		_, err := users.UsernameExists(ctx, "jane")
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InTx_RollbackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := NewStore(db).InTx(context.Background(), func(ctx context.Context, _ model.UserStore, _ model.ProfileStore) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InTx_RollbackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = NewStore(db).InTx(context.Background(), func(ctx context.Context, _ model.UserStore, _ model.ProfileStore) error {
			panic("boom")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InTx_BeginError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	called := false
	err := NewStore(db).InTx(context.Background(), func(ctx context.Context, _ model.UserStore, _ model.ProfileStore) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}

func TestStore_Repositories(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM profiles WHERE user_id = \$1`).
		WithArgs(id).
		WillReturnRows(profileRow(model.NewProfile(id)))

	store := NewStore(db)
	assert.NotNil(t, store.Users())
	assert.NotNil(t, store.Revocations())

	p, err := store.Profiles().GetByUserID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, p.UserID)
}
