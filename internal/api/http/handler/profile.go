package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

// ProfileService reads and updates the current user's account and profile.
type ProfileService interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (model.Profile, error)
	ApplyPartialUpdate(ctx context.Context, userID uuid.UUID, userPatch *model.UserPatch, profilePatch *model.ProfilePatch) (model.User, model.Profile, error)
}

type Profile struct {
	profile        ProfileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewProfile(profile ProfileService, contextManager model.ContextManager, logger *logger.Logger) *Profile {
	return &Profile{
		profile:        profile,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Profile) Get(c echo.Context) error {
	user, err := currentUser(c, h.contextManager)
	if err != nil {
		return err
	}

	profile, err := h.profile.GetOrCreate(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AccountResponse{
		User:    newUserResponse(user),
		Profile: newProfileResponse(profile),
	})
}

func (h *Profile) Update(c echo.Context) error {
	user, err := currentUser(c, h.contextManager)
	if err != nil {
		return err
	}

	var req UpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	userPatch, err := req.User.toPatch()
	if err != nil {
		return err
	}

	updated, profile, err := h.profile.ApplyPartialUpdate(c.Request().Context(), user.ID, userPatch, req.Profile.toPatch())
	if err != nil {
		return err
	}

	h.logger.Debug("Profile handler: profile updated",
		"user_id", user.ID)

	return c.JSON(http.StatusOK, AccountResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    newUserResponse(updated),
		Profile: newProfileResponse(profile),
	})
}
