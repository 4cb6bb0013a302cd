package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

// MaxAvatarSize is the largest accepted avatar in bytes.
const MaxAvatarSize = 5 << 20

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var avatarContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Avatar stores profile pictures in object storage and keeps Profile.Avatar
// pointing at the current object.
type Avatar struct {
	store   model.Transactor
	storage model.Storage
	logger  *logger.Logger
}

func NewAvatar(store model.Transactor, storage model.Storage, logger *logger.Logger) *Avatar {
	return &Avatar{
		store:   store,
		storage: storage,
		logger:  logger,
	}
}

// Upload replaces the user's avatar. The previous object is removed only
// after the profile points at the new one.
func (s *Avatar) Upload(ctx context.Context, userID uuid.UUID, reader io.Reader, size int64, contentType string) (model.Profile, error) {
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return model.Profile{}, model.ErrUnsupportedMediaType
	}
	if size <= 0 || size > MaxAvatarSize {
		return model.Profile{}, model.ErrAvatarTooLarge
	}

	key := path.Join("avatars", userID.String(), uuid.NewString()+ext)
	if err := s.storage.Upload(ctx, key, reader, size, contentType); err != nil {
		s.logger.Error("Avatar service: failed to upload avatar",
			"user_id", userID,
			"error", err.Error())
		return model.Profile{}, fmt.Errorf("failed to upload avatar: %w", err)
	}

	profile, previous, err := s.setAvatar(ctx, userID, key)
	if err != nil {
		s.removeObject(ctx, userID, key)
		return model.Profile{}, err
	}
	if previous != "" {
		s.removeObject(ctx, userID, previous)
	}

	s.logger.Info("Avatar service: avatar updated",
		"user_id", userID,
		"key", key)

	return profile, nil
}

// Open streams the current avatar. The caller closes the reader.
func (s *Avatar) Open(ctx context.Context, userID uuid.UUID) (io.ReadCloser, string, error) {
	profile, err := getOrCreateProfile(ctx, s.store.Profiles(), userID)
	if err != nil {
		return nil, "", err
	}
	if profile.Avatar == "" {
		return nil, "", model.ErrNotFound
	}

	rc, err := s.storage.Download(ctx, profile.Avatar)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download avatar: %w", err)
	}

	return rc, avatarContentTypes[path.Ext(profile.Avatar)], nil
}

// Delete clears the user's avatar.
func (s *Avatar) Delete(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	profile, previous, err := s.setAvatar(ctx, userID, "")
	if err != nil {
		return model.Profile{}, err
	}
	if previous == "" {
		return model.Profile{}, model.ErrNotFound
	}
	s.removeObject(ctx, userID, previous)

	s.logger.Info("Avatar service: avatar removed",
		"user_id", userID)

	return profile, nil
}

func (s *Avatar) setAvatar(ctx context.Context, userID uuid.UUID, key string) (model.Profile, string, error) {
	var (
		profile  model.Profile
		previous string
	)
	err := s.store.InTx(ctx, func(ctx context.Context, _ model.UserStore, profiles model.ProfileStore) error {
		var err error
		profile, err = getOrCreateProfile(ctx, profiles, userID)
		if err != nil {
			return err
		}
		previous = profile.Avatar
		if previous == key {
			return nil
		}

		profile.Avatar = key
		profile, err = profiles.Update(ctx, profile)
		if err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Avatar service: failed to update profile avatar",
				"user_id", userID,
				"error", err.Error())
		}
		return model.Profile{}, "", err
	}

	return profile, previous, nil
}

func (s *Avatar) removeObject(ctx context.Context, userID uuid.UUID, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("Avatar service: failed to remove avatar object",
			"user_id", userID,
			"key", key,
			"error", err.Error())
	}
}
