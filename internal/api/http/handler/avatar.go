package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

const avatarFormField = "avatar"

type AvatarService interface {
	Upload(ctx context.Context, userID uuid.UUID, reader io.Reader, size int64, contentType string) (model.Profile, error)
	Open(ctx context.Context, userID uuid.UUID) (io.ReadCloser, string, error)
	Delete(ctx context.Context, userID uuid.UUID) (model.Profile, error)
}

type Avatar struct {
	avatar         AvatarService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAvatar(avatar AvatarService, contextManager model.ContextManager, logger *logger.Logger) *Avatar {
	return &Avatar{
		avatar:         avatar,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Upload accepts a multipart form with the image in the "avatar" field. The
// media type is sniffed from the content, not taken from the client.
func (h *Avatar) Upload(c echo.Context) error {
	user, err := currentUser(c, h.contextManager)
	if err != nil {
		return err
	}

	fh, err := c.FormFile(avatarFormField)
	if err != nil {
		return fmt.Errorf("%w: %s", model.ErrMissingRequiredField, avatarFormField)
	}

	file, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind uploaded file: %w", err)
	}
	contentType := http.DetectContentType(head[:n])

	profile, err := h.avatar.Upload(c.Request().Context(), user.ID, file, fh.Size, contentType)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newProfileResponse(profile))
}

func (h *Avatar) Get(c echo.Context) error {
	user, err := currentUser(c, h.contextManager)
	if err != nil {
		return err
	}

	rc, contentType, err := h.avatar.Open(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	defer rc.Close()

	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return c.Stream(http.StatusOK, contentType, rc)
}

func (h *Avatar) Delete(c echo.Context) error {
	user, err := currentUser(c, h.contextManager)
	if err != nil {
		return err
	}

	profile, err := h.avatar.Delete(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newProfileResponse(profile))
}
