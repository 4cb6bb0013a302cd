package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

const (
	maxNameLength     = 150
	maxPhoneLength    = 20
	maxAddressLength  = 255
	maxRegionLength   = 100
	maxPostalLength   = 20
	maxTimezoneLength = 50
)

// Profile exposes read and partial-update semantics over a user's profile.
type Profile struct {
	store  model.Transactor
	logger *logger.Logger
}

func NewProfile(store model.Transactor, logger *logger.Logger) *Profile {
	return &Profile{
		store:  store,
		logger: logger,
	}
}

// GetOrCreate returns the user's profile, provisioning one with default
// values on first access.
func (s *Profile) GetOrCreate(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	return getOrCreateProfile(ctx, s.store.Profiles(), userID)
}

// ApplyPartialUpdate validates both patches, then applies the user patch and
// the profile patch in one transaction. Nothing is written when any check fails.
func (s *Profile) ApplyPartialUpdate(
	ctx context.Context,
	userID uuid.UUID,
	userPatch *model.UserPatch,
	profilePatch *model.ProfilePatch,
) (model.User, model.Profile, error) {
	if userPatch.Empty() && profilePatch.Empty() {
		return model.User{}, model.Profile{}, model.ErrNoFieldsProvided
	}
	if err := validateUserPatch(userPatch); err != nil {
		return model.User{}, model.Profile{}, err
	}
	if err := validateProfilePatch(profilePatch); err != nil {
		return model.User{}, model.Profile{}, err
	}

	var (
		user    model.User
		profile model.Profile
	)
	err := s.store.InTx(ctx, func(ctx context.Context, users model.UserStore, profiles model.ProfileStore) error {
		var err error
		user, err = users.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		if userPatch != nil && userPatch.Email != nil {
			taken, err := users.EmailTaken(ctx, *userPatch.Email, userID)
			if err != nil {
				return fmt.Errorf("failed to check email: %w", err)
			}
			if taken {
				return model.ErrDuplicateEmail
			}
		}

		now := time.Now().UTC()
		if !userPatch.Empty() {
			userPatch.Apply(&user)
			user.UpdatedAt = now
			user, err = users.Update(ctx, user)
			if err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}

		profile, err = getOrCreateProfile(ctx, profiles, userID)
		if err != nil {
			return err
		}

		if !profilePatch.Empty() {
			profilePatch.Apply(&profile)
			profile.UpdatedAt = now
			profile, err = profiles.Update(ctx, profile)
			if err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrDuplicateEmail):
			return model.User{}, model.Profile{}, err
		case errors.Is(err, model.ErrPersistenceConflict):
			return model.User{}, model.Profile{}, model.ErrPersistenceConflict
		}
		s.logger.Error("Profile service: failed to apply partial update",
			"user_id", userID,
			"error", err.Error())
		return model.User{}, model.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Profile service: profile updated",
		"user_id", userID)

	return user, profile, nil
}

func getOrCreateProfile(ctx context.Context, profiles model.ProfileStore, userID uuid.UUID) (model.Profile, error) {
	profile, err := profiles.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	profile, err = profiles.Create(ctx, model.NewProfile(userID))
	if errors.Is(err, model.ErrPersistenceConflict) {
		// Provisioned concurrently; the existing row wins.
		return profiles.GetByUserID(ctx, userID)
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}

	return profile, nil
}

func validateUserPatch(p *model.UserPatch) error {
	if p == nil {
		return nil
	}
	if p.Email != nil {
		if err := validate.Var(*p.Email, "required,email,max=254"); err != nil {
			return model.ErrInvalidEmail
		}
	}
	if p.PhoneNumber != nil {
		if !validPhoneNumber(*p.PhoneNumber) {
			return model.ErrInvalidPhoneFormat
		}
		if len(*p.PhoneNumber) > maxPhoneLength {
			return fmt.Errorf("%w: phone_number exceeds %d characters", model.ErrInvalidField, maxPhoneLength)
		}
	}
	if p.FirstName != nil && utf8.RuneCountInString(*p.FirstName) > maxNameLength {
		return fmt.Errorf("%w: first_name exceeds %d characters", model.ErrInvalidField, maxNameLength)
	}
	if p.LastName != nil && utf8.RuneCountInString(*p.LastName) > maxNameLength {
		return fmt.Errorf("%w: last_name exceeds %d characters", model.ErrInvalidField, maxNameLength)
	}
	if p.CurrencyPreference != nil && !p.CurrencyPreference.Valid() {
		return fmt.Errorf("%w: unsupported currency %q", model.ErrInvalidField, *p.CurrencyPreference)
	}
	if p.DateOfBirth != nil && p.DateOfBirth.After(time.Now()) {
		return fmt.Errorf("%w: date_of_birth is in the future", model.ErrInvalidField)
	}
	return nil
}

func validateProfilePatch(p *model.ProfilePatch) error {
	if p == nil {
		return nil
	}
	if p.PostalCode != nil && *p.PostalCode != "" && utf8.RuneCountInString(*p.PostalCode) < model.MinPostalCodeLength {
		return model.ErrInvalidPostalCode
	}
	if p.Bio != nil && utf8.RuneCountInString(*p.Bio) > model.MaxBioLength {
		return fmt.Errorf("%w: bio exceeds %d characters", model.ErrInvalidField, model.MaxBioLength)
	}
	if p.Language != nil && !p.Language.Valid() {
		return fmt.Errorf("%w: unsupported language %q", model.ErrInvalidField, *p.Language)
	}

	limits := []struct {
		name  string
		value *string
		max   int
	}{
		{"address_line1", p.AddressLine1, maxAddressLength},
		{"address_line2", p.AddressLine2, maxAddressLength},
		{"city", p.City, maxRegionLength},
		{"state", p.State, maxRegionLength},
		{"postal_code", p.PostalCode, maxPostalLength},
		{"country", p.Country, maxRegionLength},
		{"timezone", p.Timezone, maxTimezoneLength},
	}
	for _, l := range limits {
		if l.value != nil && utf8.RuneCountInString(*l.value) > l.max {
			return fmt.Errorf("%w: %s exceeds %d characters", model.ErrInvalidField, l.name, l.max)
		}
	}
	return nil
}

var phoneSeparators = strings.NewReplacer("+", "", "-", "", " ", "", "(", "", ")", "")

// validPhoneNumber accepts an empty value or one made only of digits once
// the separators + - space ( ) are removed.
func validPhoneNumber(phone string) bool {
	if phone == "" {
		return true
	}
	digits := phoneSeparators.Replace(phone)
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
