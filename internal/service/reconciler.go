package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

const fallbackUsername = "user"

var validate = validator.New()

// RegisterParams is the input of an explicit registration.
type RegisterParams struct {
	ExternalUID string
	Email       string
	FirstName   string
	LastName    string
}

// Reconciler maps verified identity claims onto local users.
type Reconciler struct {
	oracle model.IdentityOracle
	store  model.Transactor
	logger *logger.Logger
}

func NewReconciler(oracle model.IdentityOracle, store model.Transactor, logger *logger.Logger) *Reconciler {
	return &Reconciler{
		oracle: oracle,
		store:  store,
		logger: logger,
	}
}

// VerifyAndResolve asks the identity oracle to decode token into verified
// claims. It never touches storage.
func (r *Reconciler) VerifyAndResolve(ctx context.Context, token string) (model.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.Claims{}, model.ErrInvalidToken
	}

	claims, err := r.oracle.VerifyToken(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrExpiredToken):
			r.logger.Warn("Reconciler service: expired identity token")
			return model.Claims{}, model.ErrExpiredToken
		case errors.Is(err, model.ErrRevokedToken):
			r.logger.Warn("Reconciler service: revoked identity token")
			return model.Claims{}, model.ErrRevokedToken
		case errors.Is(err, model.ErrInvalidToken):
			r.logger.Warn("Reconciler service: invalid identity token")
			return model.Claims{}, model.ErrInvalidToken
		default:
			r.logger.Error("Reconciler service: identity oracle failure",
				"error", err.Error())
			return model.Claims{}, fmt.Errorf("failed to verify token: %w", err)
		}
	}

	if claims.ExternalUID == "" {
		r.logger.Warn("Reconciler service: token carries no subject")
		return model.Claims{}, model.ErrInvalidToken
	}

	return claims, nil
}

// ResolveUser finds the user linked to claims.ExternalUID and merges the claims
// into it, or creates the user together with an empty profile. A lost
// uniqueness race is reported as model.ErrPersistenceConflict.
func (r *Reconciler) ResolveUser(ctx context.Context, claims model.Claims) (model.User, error) {
	if claims.ExternalUID == "" {
		return model.User{}, fmt.Errorf("%w: external uid", model.ErrMissingRequiredField)
	}

	user, err := r.store.Users().GetByExternalUID(ctx, claims.ExternalUID)
	switch {
	case err == nil:
		return r.syncUser(ctx, user, claims)
	case errors.Is(err, model.ErrNotFound):
		return r.createUser(ctx, claims)
	default:
		r.logger.Error("Reconciler service: failed to get user by external uid",
			"external_uid", claims.ExternalUID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by external uid: %w", err)
	}
}

func (r *Reconciler) syncUser(ctx context.Context, user model.User, claims model.Claims) (model.User, error) {
	mergeClaims(&user, claims)
	user.UpdatedAt = time.Now().UTC()

	updated, err := r.store.Users().Update(ctx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("failed to update user from claims: %w", model.ErrPersistenceConflict)
		}
		r.logger.Error("Reconciler service: failed to update user from claims",
			"user_id", user.ID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to update user from claims: %w", err)
	}

	r.logger.Debug("Reconciler service: user synced from claims",
		"user_id", updated.ID,
		"external_uid", claims.ExternalUID)

	return updated, nil
}

func (r *Reconciler) createUser(ctx context.Context, claims model.Claims) (model.User, error) {
	uid := claims.ExternalUID
	firstName, lastName := splitNameOnSpace(claims.Name)

	var created model.User
	err := r.store.InTx(ctx, func(ctx context.Context, users model.UserStore, profiles model.ProfileStore) error {
		username, err := generateUsername(ctx, users, usernameBase(claims.Email, claims.Name))
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		created, err = users.Create(ctx, model.User{
			ID:                    uuid.New(),
			Username:              username,
			Email:                 claims.Email,
			ExternalUID:           &uid,
			FirstName:             firstName,
			LastName:              lastName,
			CurrencyPreference:    model.DefaultCurrency,
			IsVerified:            claims.EmailVerified,
			ExternalEmailVerified: claims.EmailVerified,
			IsActive:              true,
			CreatedAt:             now,
			UpdatedAt:             now,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if _, err := profiles.Create(ctx, model.NewProfile(created.ID)); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Info("Reconciler service: lost user creation race",
				"external_uid", uid,
				"error", err.Error())
			return model.User{}, fmt.Errorf("failed to create user from claims: %w", model.ErrPersistenceConflict)
		}
		r.logger.Error("Reconciler service: failed to create user from claims",
			"external_uid", uid,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user from claims: %w", err)
	}

	r.logger.Info("Reconciler service: created new user",
		"user_id", created.ID,
		"email", created.Email,
		"external_uid", uid)

	return created, nil
}

// RegisterExplicit creates a pre-verified user linked to params.ExternalUID
// together with an empty profile.
func (r *Reconciler) RegisterExplicit(ctx context.Context, params RegisterParams) (model.User, model.Profile, error) {
	params.ExternalUID = strings.TrimSpace(params.ExternalUID)
	params.Email = strings.TrimSpace(params.Email)

	if params.ExternalUID == "" {
		return model.User{}, model.Profile{}, fmt.Errorf("%w: firebase_uid", model.ErrMissingRequiredField)
	}
	if params.Email == "" {
		return model.User{}, model.Profile{}, fmt.Errorf("%w: email", model.ErrMissingRequiredField)
	}
	if err := validate.Var(params.Email, "email,max=254"); err != nil {
		return model.User{}, model.Profile{}, model.ErrInvalidEmail
	}

	users := r.store.Users()

	_, err := users.GetByExternalUID(ctx, params.ExternalUID)
	if err == nil {
		r.logger.Info("Reconciler service: external uid already registered",
			"external_uid", params.ExternalUID)
		return model.User{}, model.Profile{}, model.ErrDuplicateExternalUID
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.Profile{}, fmt.Errorf("failed to get user by external uid: %w", err)
	}

	_, err = users.GetByEmail(ctx, params.Email)
	if err == nil {
		r.logger.Info("Reconciler service: email already registered",
			"email", params.Email)
		return model.User{}, model.Profile{}, model.ErrDuplicateEmail
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.Profile{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	var (
		user    model.User
		profile model.Profile
	)
	err = r.store.InTx(ctx, func(ctx context.Context, users model.UserStore, profiles model.ProfileStore) error {
		username, err := generateUsername(ctx, users, emailLocalPart(params.Email))
		if err != nil {
			return err
		}

		uid := params.ExternalUID
		now := time.Now().UTC()
		user, err = users.Create(ctx, model.User{
			ID:                    uuid.New(),
			Username:              username,
			Email:                 params.Email,
			ExternalUID:           &uid,
			FirstName:             params.FirstName,
			LastName:              params.LastName,
			CurrencyPreference:    model.DefaultCurrency,
			IsVerified:            true,
			ExternalEmailVerified: true,
			IsActive:              true,
			CreatedAt:             now,
			UpdatedAt:             now,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		profile, err = profiles.Create(ctx, model.NewProfile(user.ID))
		if err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrDuplicateExternalUID), errors.Is(err, model.ErrDuplicateEmail):
			return model.User{}, model.Profile{}, err
		case errors.Is(err, model.ErrPersistenceConflict):
			return model.User{}, model.Profile{}, fmt.Errorf("failed to register user: %w", model.ErrPersistenceConflict)
		}
		r.logger.Error("Reconciler service: failed to register user",
			"email", params.Email,
			"external_uid", params.ExternalUID,
			"error", err.Error())
		return model.User{}, model.Profile{}, fmt.Errorf("failed to register user: %w", err)
	}

	r.logger.Info("Reconciler service: new user registered",
		"email", user.Email,
		"external_uid", params.ExternalUID)

	return user, profile, nil
}

// mergeClaims applies fresh claims to an already linked user.
func mergeClaims(user *model.User, claims model.Claims) {
	if claims.EmailVerified {
		user.IsVerified = true
		user.ExternalEmailVerified = true
	}

	if claims.PhoneNumber != nil {
		user.PhoneNumber = *claims.PhoneNumber
		user.ExternalPhoneVerified = claims.PhoneVerified
	}

	parts := strings.Fields(claims.Name)
	if len(parts) >= 2 {
		first, last := parts[0], strings.Join(parts[1:], " ")
		if user.FirstName != first || user.LastName != last {
			user.FirstName = first
			user.LastName = last
		}
	}
}

// splitNameOnSpace splits a display name for a newly created user. A name
// without a space leaves both parts empty.
func splitNameOnSpace(name string) (first, last string) {
	if !strings.Contains(name, " ") {
		return "", ""
	}
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// usernameBase picks the email local part, then the lowercased name with
// underscores, then the literal fallback.
func usernameBase(email, name string) string {
	if base := emailLocalPart(email); base != "" {
		return base
	}
	if name != "" {
		return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	}
	return fallbackUsername
}

func emailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// generateUsername returns base when free, otherwise the first free of
// base_1, base_2, ... The check is not atomic; the storage-level unique
// constraint decides concurrent races.
func generateUsername(ctx context.Context, users model.UserStore, base string) (string, error) {
	if base == "" {
		base = fallbackUsername
	}

	candidate := base
	for counter := 1; ; counter++ {
		taken, err := users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, counter)
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, model.ErrPersistenceConflict) ||
		errors.Is(err, model.ErrDuplicateEmail) ||
		errors.Is(err, model.ErrDuplicateExternalUID)
}
