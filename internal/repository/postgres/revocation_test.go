package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevocationRepository_RevokedAt(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT revoked_at FROM token_revocations WHERE firebase_uid = \$1`).
		WithArgs("uid-1").
		WillReturnRows(sqlmock.NewRows([]string{"revoked_at"}).AddRow(at))
	mock.ExpectQuery(`SELECT revoked_at FROM token_revocations WHERE firebase_uid = \$1`).
		WithArgs("uid-2").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT revoked_at FROM token_revocations WHERE firebase_uid = \$1`).
		WithArgs("uid-3").
		WillReturnError(errors.New("db down"))

	repo := NewRevocationRepository(db)

	got, err := repo.RevokedAt(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.True(t, at.Equal(got))

	got, err = repo.RevokedAt(context.Background(), "uid-2")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = repo.RevokedAt(context.Background(), "uid-3")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevocationRepository_Revoke(t *testing.T) {
	at := time.Now().UTC()

	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO token_revocations \(firebase_uid, revoked_at\) VALUES \(\$1, \$2\) ON CONFLICT`).
		WithArgs("uid-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewRevocationRepository(db).Revoke(context.Background(), "uid-1", at))
	require.NoError(t, mock.ExpectationsWereMet())
}
