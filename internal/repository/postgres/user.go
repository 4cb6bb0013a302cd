package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, username, email, firebase_uid, first_name, last_name, phone_number,
	date_of_birth, currency_preference, is_verified, firebase_email_verified,
	firebase_phone_verified, is_active, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByExternalUID(ctx context.Context, externalUID string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE firebase_uid = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, externalUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by firebase uid: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return exists, nil
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string, exceptID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND id <> $2)`

	var taken bool
	if err := r.db.QueryRowContext(ctx, query, email, exceptID).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	return taken, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, username, email, firebase_uid, first_name, last_name, phone_number,
			  date_of_birth, currency_preference, is_verified, firebase_email_verified,
			  firebase_phone_verified, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, nullString(user.Email), user.ExternalUID, user.FirstName, user.LastName,
		user.PhoneNumber, user.DateOfBirth, string(user.CurrencyPreference), user.IsVerified,
		user.ExternalEmailVerified, user.ExternalPhoneVerified, user.IsActive, user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", classify(err))
	}

	return saved, nil
}

func (r *UserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	query := `UPDATE users SET email = $2, firebase_uid = $3, first_name = $4, last_name = $5,
			  phone_number = $6, date_of_birth = $7, currency_preference = $8, is_verified = $9,
			  firebase_email_verified = $10, firebase_phone_verified = $11, is_active = $12, updated_at = $13
			  WHERE id = $1
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, nullString(user.Email), user.ExternalUID, user.FirstName, user.LastName,
		user.PhoneNumber, user.DateOfBirth, string(user.CurrencyPreference), user.IsVerified,
		user.ExternalEmailVerified, user.ExternalPhoneVerified, user.IsActive, user.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", classify(err))
	}

	return saved, nil
}

func scanUser(row *sql.Row) (model.User, error) {
	var (
		user        model.User
		email       sql.NullString
		externalUID sql.NullString
		dateOfBirth sql.NullTime
		currency    string
	)

	err := row.Scan(
		&user.ID, &user.Username, &email, &externalUID, &user.FirstName, &user.LastName,
		&user.PhoneNumber, &dateOfBirth, &currency, &user.IsVerified, &user.ExternalEmailVerified,
		&user.ExternalPhoneVerified, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}

	user.Email = email.String
	if externalUID.Valid {
		uid := externalUID.String
		user.ExternalUID = &uid
	}
	if dateOfBirth.Valid {
		dob := dateOfBirth.Time
		user.DateOfBirth = &dob
	}
	user.CurrencyPreference = model.Currency(currency)

	return user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
