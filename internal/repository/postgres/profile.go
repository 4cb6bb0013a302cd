package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

const profileColumns = `id, user_id, avatar, bio, address_line1, address_line2, city, state,
	postal_code, country, language, timezone, email_notifications, push_notifications,
	sms_notifications, created_at, updated_at`

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{
		db: db,
	}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile by user id: %w", err)
	}

	return profile, nil
}

// Create inserts profile. When the user already has a profile nothing is
// written and model.ErrPersistenceConflict is returned; the surrounding
// transaction stays usable.
func (r *ProfileRepository) Create(ctx context.Context, profile model.Profile) (model.Profile, error) {
	query := `INSERT INTO profiles (id, user_id, avatar, bio, address_line1, address_line2, city, state,
			  postal_code, country, language, timezone, email_notifications, push_notifications,
			  sms_notifications, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
			  ON CONFLICT (user_id) DO NOTHING
			  RETURNING ` + profileColumns

	saved, err := scanProfile(r.db.QueryRowContext(ctx, query,
		profile.ID, profile.UserID, profile.Avatar, profile.Bio,
		profile.Address.Line1, profile.Address.Line2, profile.Address.City, profile.Address.State,
		profile.Address.PostalCode, profile.Address.Country, string(profile.Language), profile.Timezone,
		profile.EmailNotifications, profile.PushNotifications, profile.SMSNotifications,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, model.ErrPersistenceConflict
		}
		return model.Profile{}, fmt.Errorf("failed to create profile: %w", classify(err))
	}

	return saved, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile model.Profile) (model.Profile, error) {
	query := `UPDATE profiles SET avatar = $2, bio = $3, address_line1 = $4, address_line2 = $5,
			  city = $6, state = $7, postal_code = $8, country = $9, language = $10, timezone = $11,
			  email_notifications = $12, push_notifications = $13, sms_notifications = $14, updated_at = NOW()
			  WHERE user_id = $1
			  RETURNING ` + profileColumns

	saved, err := scanProfile(r.db.QueryRowContext(ctx, query,
		profile.UserID, profile.Avatar, profile.Bio,
		profile.Address.Line1, profile.Address.Line2, profile.Address.City, profile.Address.State,
		profile.Address.PostalCode, profile.Address.Country, string(profile.Language), profile.Timezone,
		profile.EmailNotifications, profile.PushNotifications, profile.SMSNotifications,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to update profile: %w", classify(err))
	}

	return saved, nil
}

func scanProfile(row *sql.Row) (model.Profile, error) {
	var (
		profile  model.Profile
		language string
	)

	err := row.Scan(
		&profile.ID, &profile.UserID, &profile.Avatar, &profile.Bio,
		&profile.Address.Line1, &profile.Address.Line2, &profile.Address.City, &profile.Address.State,
		&profile.Address.PostalCode, &profile.Address.Country, &language, &profile.Timezone,
		&profile.EmailNotifications, &profile.PushNotifications, &profile.SMSNotifications,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return model.Profile{}, err
	}
	profile.Language = model.Language(language)

	return profile, nil
}
