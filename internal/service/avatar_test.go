package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shehanaraph-lab/Finnacle/internal/mocks"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
	"github.com/shehanaraph-lab/Finnacle/internal/repository/memory"
	"github.com/shehanaraph-lab/Finnacle/internal/testutil"
)

func keyPrefix(userID uuid.UUID) string {
	return "avatars/" + userID.String() + "/"
}

func TestAvatar_Upload(t *testing.T) {
	store := memory.NewStore()
	storage := mocks.NewStorage(t)
	s := NewAvatar(store, storage, testutil.MakeNoopLogger())
	user := seedUser(t, store, "jane", "jane@example.com")
	ctx := context.Background()

	storage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, keyPrefix(user.ID)) && strings.HasSuffix(key, ".png")
	}), mock.Anything, int64(4), "image/png").Return(nil).Once()

	profile, err := s.Upload(ctx, user.ID, bytes.NewReader([]byte("\x89PNG")), 4, "image/png")
	require.NoError(t, err)
	first := profile.Avatar
	assert.True(t, strings.HasPrefix(first, keyPrefix(user.ID)))

	storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, int64(3), "image/jpeg").Return(nil).Once()
	storage.On("Delete", mock.Anything, first).Return(nil).Once()

	profile, err = s.Upload(ctx, user.ID, bytes.NewReader([]byte("jpg")), 3, "image/jpeg")
	require.NoError(t, err)
	assert.NotEqual(t, first, profile.Avatar)
	assert.True(t, strings.HasSuffix(profile.Avatar, ".jpg"))
}

func TestAvatar_Upload_Rejections(t *testing.T) {
	store := memory.NewStore()
	s := NewAvatar(store, mocks.NewStorage(t), testutil.MakeNoopLogger())
	user := seedUser(t, store, "jane", "jane@example.com")

	_, err := s.Upload(context.Background(), user.ID, strings.NewReader("x"), 1, "application/pdf")
	assert.ErrorIs(t, err, model.ErrUnsupportedMediaType)

	_, err = s.Upload(context.Background(), user.ID, strings.NewReader("x"), MaxAvatarSize+1, "image/png")
	assert.ErrorIs(t, err, model.ErrAvatarTooLarge)
}

func TestAvatar_Upload_StorageFailure(t *testing.T) {
	store := memory.NewStore()
	storage := mocks.NewStorage(t)
	s := NewAvatar(store, storage, testutil.MakeNoopLogger())
	user := seedUser(t, store, "jane", "jane@example.com")

	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, int64(1), "image/gif").Return(errors.New("bucket gone"))

	_, err := s.Upload(context.Background(), user.ID, strings.NewReader("x"), 1, "image/gif")
	require.Error(t, err)

	profile, err := store.Profiles().GetByUserID(context.Background(), user.ID)
	if err == nil {
		assert.Empty(t, profile.Avatar)
	}
}

func TestAvatar_Upload_UnknownUserRemovesObject(t *testing.T) {
	storage := mocks.NewStorage(t)
	s := NewAvatar(memory.NewStore(), storage, testutil.MakeNoopLogger())

	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, int64(1), "image/webp").Return(nil)
	storage.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)

	_, err := s.Upload(context.Background(), uuid.New(), strings.NewReader("x"), 1, "image/webp")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAvatar_OpenAndDelete(t *testing.T) {
	store := memory.NewStore()
	storage := mocks.NewStorage(t)
	s := NewAvatar(store, storage, testutil.MakeNoopLogger())
	user := seedUser(t, store, "jane", "jane@example.com")
	ctx := context.Background()

	_, _, err := s.Open(ctx, user.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.Delete(ctx, user.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, int64(4), "image/png").Return(nil)
	profile, err := s.Upload(ctx, user.ID, strings.NewReader("data"), 4, "image/png")
	require.NoError(t, err)

	storage.On("Download", mock.Anything, profile.Avatar).Return(io.NopCloser(strings.NewReader("data")), nil)
	rc, contentType, err := s.Open(ctx, user.ID)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "data", string(body))
	assert.Equal(t, "image/png", contentType)

	storage.On("Delete", mock.Anything, profile.Avatar).Return(nil)
	cleared, err := s.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cleared.Avatar)
}
