package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
	"github.com/shehanaraph-lab/Finnacle/internal/service"
)

// AccountService defines the token-driven account operations.
type AccountService interface {
	VerifyToken(ctx context.Context, token string) (model.User, model.Claims, error)
	Logout(ctx context.Context, user model.User) error
	ForgotPassword(ctx context.Context, email string) error
}

// Registrar links an external identity to a new local account.
type Registrar interface {
	RegisterExplicit(ctx context.Context, params service.RegisterParams) (model.User, model.Profile, error)
}

// Auth handles the /auth endpoints that do not touch the profile.
type Auth struct {
	account        AccountService
	registrar      Registrar
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuth(account AccountService, registrar Registrar, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		account:        account,
		registrar:      registrar,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Verify checks an identity token and reports the linked user, if any.
func (h *Auth) Verify(c echo.Context) error {
	var req VerifyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, claims, err := h.account.VerifyToken(c.Request().Context(), req.Token)
	if errors.Is(err, model.ErrNotFound) {
		return c.JSON(http.StatusNotFound, VerifyResponse{
			Success:     false,
			Message:     "User not found. Please register first.",
			FirebaseUID: claims.ExternalUID,
		})
	}
	if err != nil {
		return err
	}

	resp := newUserResponse(user)
	return c.JSON(http.StatusOK, VerifyResponse{
		Success: true,
		Message: "Token verified successfully",
		User:    &resp,
	})
}

func (h *Auth) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, profile, err := h.registrar.RegisterExplicit(c.Request().Context(), service.RegisterParams{
		ExternalUID: req.FirebaseUID,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, AccountResponse{
		Success: true,
		Message: "User registered successfully",
		User:    newUserResponse(user),
		Profile: newProfileResponse(profile),
	})
}

func (h *Auth) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.account.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "If an account exists for this email, a password reset link has been sent.",
	})
}

func (h *Auth) Status(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, StatusResponse{
		Authenticated: true,
		User:          newUserResponse(user),
		FirebaseUID:   user.ExternalUID,
		IsVerified:    user.IsVerified,
	})
}

func (h *Auth) Logout(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	if err := h.account.Logout(c.Request().Context(), user); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

func (h *Auth) currentUser(c echo.Context) (model.User, error) {
	return currentUser(c, h.contextManager)
}

func currentUser(c echo.Context, cm model.ContextManager) (model.User, error) {
	user, ok := cm.GetUserFromContext(c.Request().Context())
	if !ok {
		return model.User{}, model.ErrMissingToken
	}
	return user, nil
}
