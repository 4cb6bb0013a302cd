package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const codeUnauthorized = "UNAUTHORIZED"

// NewErrorHandler maps errors returned by handlers and middleware onto HTTP
// responses. Unclassified errors are logged and reported as 500 without detail.
func NewErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := mapError(err)
		if status == http.StatusInternalServerError {
			logger.Error("HTTP handler: request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err.Error())
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error("HTTP handler: failed to write error response",
				"error", err.Error())
		}
	}
}

func mapError(err error) (int, ErrorResponse) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			msg = m
		}
		return httpErr.Code, ErrorResponse{Error: http.StatusText(httpErr.Code), Message: msg}
	}

	switch {
	case errors.Is(err, model.ErrMissingToken):
		return unauthorized("Missing or invalid Authorization header")
	case errors.Is(err, model.ErrExpiredToken):
		return unauthorized("Token expired")
	case errors.Is(err, model.ErrRevokedToken):
		return unauthorized("Token revoked")
	case errors.Is(err, model.ErrInvalidToken):
		return unauthorized("Invalid token")

	case errors.Is(err, model.ErrAccountInactive):
		return http.StatusForbidden, ErrorResponse{
			Error:   "Account disabled",
			Message: "This account has been deactivated",
			Code:    "ACCOUNT_INACTIVE",
		}
	case errors.Is(err, model.ErrAccountNotLinked):
		return http.StatusForbidden, ErrorResponse{
			Error:   "Invalid user account",
			Message: "User account not properly linked to Firebase",
			Code:    "INVALID_USER_ACCOUNT",
		}

	case errors.Is(err, model.ErrDuplicateExternalUID):
		return http.StatusConflict, ErrorResponse{
			Error:   "User already exists",
			Message: "User with this Firebase UID already registered",
		}
	case errors.Is(err, model.ErrDuplicateEmail):
		return http.StatusConflict, ErrorResponse{
			Error:   "Email already exists",
			Message: "User with this email already registered",
		}
	case errors.Is(err, model.ErrPersistenceConflict):
		return http.StatusConflict, ErrorResponse{
			Error:   "Conflict",
			Message: "The request conflicted with a concurrent update, please retry",
		}

	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Not found", Message: "Resource not found"}

	case errors.Is(err, model.ErrNoFieldsProvided),
		errors.Is(err, model.ErrInvalidPhoneFormat),
		errors.Is(err, model.ErrInvalidPostalCode),
		errors.Is(err, model.ErrMissingRequiredField),
		errors.Is(err, model.ErrInvalidEmail),
		errors.Is(err, model.ErrInvalidField):
		return http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()}

	case errors.Is(err, model.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, ErrorResponse{Error: "Unsupported media type", Message: err.Error()}
	case errors.Is(err, model.ErrAvatarTooLarge):
		return http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Payload too large", Message: err.Error()}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal server error",
		Message: "Failed to process request",
	}
}

func unauthorized(msg string) (int, ErrorResponse) {
	return http.StatusUnauthorized, ErrorResponse{
		Error:   "Authentication failed",
		Message: msg,
		Code:    codeUnauthorized,
	}
}
