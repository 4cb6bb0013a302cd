package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/shehanaraph-lab/Finnacle/internal/model"
	"github.com/shehanaraph-lab/Finnacle/internal/testutil"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing token", model.ErrMissingToken, http.StatusUnauthorized, codeUnauthorized},
		{"invalid token", model.ErrInvalidToken, http.StatusUnauthorized, codeUnauthorized},
		{"expired token", fmt.Errorf("verify: %w", model.ErrExpiredToken), http.StatusUnauthorized, codeUnauthorized},
		{"revoked token", model.ErrRevokedToken, http.StatusUnauthorized, codeUnauthorized},
		{"inactive account", model.ErrAccountInactive, http.StatusForbidden, "ACCOUNT_INACTIVE"},
		{"unlinked account", model.ErrAccountNotLinked, http.StatusForbidden, "INVALID_USER_ACCOUNT"},
		{"duplicate uid", model.ErrDuplicateExternalUID, http.StatusConflict, ""},
		{"duplicate email", model.ErrDuplicateEmail, http.StatusConflict, ""},
		{"persistence conflict", model.ErrPersistenceConflict, http.StatusConflict, ""},
		{"not found", model.ErrNotFound, http.StatusNotFound, ""},
		{"no fields", model.ErrNoFieldsProvided, http.StatusBadRequest, ""},
		{"phone", model.ErrInvalidPhoneFormat, http.StatusBadRequest, ""},
		{"postal code", model.ErrInvalidPostalCode, http.StatusBadRequest, ""},
		{"missing field", fmt.Errorf("%w: email", model.ErrMissingRequiredField), http.StatusBadRequest, ""},
		{"invalid email", model.ErrInvalidEmail, http.StatusBadRequest, ""},
		{"invalid field", model.ErrInvalidField, http.StatusBadRequest, ""},
		{"media type", model.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, ""},
		{"too large", model.ErrAvatarTooLarge, http.StatusRequestEntityTooLarge, ""},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, ""},
		{"unknown", errors.New("connection reset by peer"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := mapError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestMapError_InternalDetailsHidden(t *testing.T) {
	_, body := mapError(errors.New("pq: password authentication failed for user finnacle"))
	assert.NotContains(t, body.Message, "password")
}

func TestErrorHandler_WritesJSON(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(testutil.MakeNoopLogger())
	e.GET("/", func(c echo.Context) error { return model.ErrDuplicateEmail })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"Email already exists","message":"User with this email already registered"}`, rec.Body.String())
}
