package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

var userRowColumns = []string{
	"id", "username", "email", "firebase_uid", "first_name", "last_name", "phone_number",
	"date_of_birth", "currency_preference", "is_verified", "firebase_email_verified",
	"firebase_phone_verified", "is_active", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func userRow(id uuid.UUID, email, uid any) *sqlmock.Rows {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return sqlmock.NewRows(userRowColumns).AddRow(
		id.String(), "jane", email, uid, "Jane", "Doe", "",
		nil, "USD", true, true, false, true, now, now,
	)
}

func TestUserRepository_GetByID(t *testing.T) {
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(userRow(id, "jane@example.com", "uid-1"))

		user, err := NewUserRepository(db).GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.Equal(t, "uid-1", user.LinkedUID())
		assert.Equal(t, model.CurrencyUSD, user.CurrencyPreference)
		assert.Nil(t, user.DateOfBirth)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null email and uid", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(userRow(id, nil, nil))

		user, err := NewUserRepository(db).GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Empty(t, user.Email)
		assert.Nil(t, user.ExternalUID)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		_, err := NewUserRepository(db).GetByID(context.Background(), id)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnError(errors.New("db down"))

		_, err := NewUserRepository(db).GetByID(context.Background(), id)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get user by id")
		assert.NotErrorIs(t, err, model.ErrNotFound)
	})
}

func TestUserRepository_GetByExternalUID(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE firebase_uid = \$1`).
		WithArgs("uid-1").
		WillReturnRows(userRow(id, "jane@example.com", "uid-1"))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE firebase_uid = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewUserRepository(db)

	user, err := repo.GetByExternalUID(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	_, err = repo.GetByExternalUID(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_CaseInsensitive(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("Jane@Example.com").
		WillReturnRows(userRow(id, "jane@example.com", nil))

	user, err := NewUserRepository(db).GetByEmail(context.Background(), "Jane@Example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UsernameExists(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE username = \$1\)`).
		WithArgs("jane").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE username = \$1\)`).
		WithArgs("john").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	repo := NewUserRepository(db)

	exists, err := repo.UsernameExists(context.Background(), "jane")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UsernameExists(context.Background(), "john")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_EmailTaken(t *testing.T) {
	db, mock := newMockDB(t)
	self := uuid.New()
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE LOWER\(email\) = LOWER\(\$1\) AND id <> \$2\)`).
		WithArgs("jane@example.com", self).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err := NewUserRepository(db).EmailTaken(context.Background(), "jane@example.com", self)
	require.NoError(t, err)
	assert.False(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	uid := "uid-1"
	user := model.User{
		ID:                 uuid.New(),
		Username:           "jane",
		Email:              "jane@example.com",
		ExternalUID:        &uid,
		CurrencyPreference: model.CurrencyUSD,
		IsActive:           true,
	}

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "success"},
		{
			name:    "duplicate email",
			err:     &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			wantErr: model.ErrDuplicateEmail,
		},
		{
			name:    "duplicate firebase uid",
			err:     &pgconn.PgError{Code: "23505", ConstraintName: "users_firebase_uid_key"},
			wantErr: model.ErrDuplicateExternalUID,
		},
		{
			name:    "duplicate username",
			err:     &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"},
			wantErr: model.ErrPersistenceConflict,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			exp := mock.ExpectQuery(`INSERT INTO users \(.+\) VALUES \(.+\) RETURNING .+`)
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnRows(userRow(user.ID, user.Email, uid))
			}

			saved, err := NewUserRepository(db).Create(context.Background(), user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, saved.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Update(t *testing.T) {
	user := model.User{ID: uuid.New(), Username: "jane", Email: "jane@example.com", CurrencyPreference: model.CurrencyEUR}

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`UPDATE users SET .+ WHERE id = \$1 RETURNING .+`).
			WillReturnRows(userRow(user.ID, user.Email, nil))

		saved, err := NewUserRepository(db).Update(context.Background(), user)
		require.NoError(t, err)
		assert.Equal(t, user.ID, saved.ID)
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`UPDATE users SET .+ WHERE id = \$1 RETURNING .+`).
			WillReturnError(sql.ErrNoRows)

		_, err := NewUserRepository(db).Update(context.Background(), user)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("email conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`UPDATE users SET .+ WHERE id = \$1 RETURNING .+`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err := NewUserRepository(db).Update(context.Background(), user)
		assert.ErrorIs(t, err, model.ErrDuplicateEmail)
	})
}
