package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpctx "github.com/shehanaraph-lab/Finnacle/internal/api/http/context"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
	"github.com/shehanaraph-lab/Finnacle/internal/testutil"
)

type fakeAuthenticator struct {
	user  model.User
	err   error
	token string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (model.User, error) {
	f.token = token
	return f.user, f.err
}

func TestAuthenticate_Handle(t *testing.T) {
	user := model.User{ID: uuid.New(), Username: "jane"}

	tests := []struct {
		name       string
		header     string
		authErr    error
		wantErr    error
		wantToken  string
		wantCalled bool
	}{
		{name: "valid bearer", header: "Bearer tok", wantToken: "tok", wantCalled: true},
		{name: "padded bearer", header: "Bearer   tok  ", wantToken: "tok", wantCalled: true},
		{name: "no header", header: "", wantErr: model.ErrMissingToken},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: model.ErrMissingToken},
		{name: "empty bearer", header: "Bearer ", wantErr: model.ErrMissingToken},
		{name: "expired", header: "Bearer tok", authErr: model.ErrExpiredToken, wantErr: model.ErrExpiredToken, wantToken: "tok"},
		{name: "inactive", header: "Bearer tok", authErr: model.ErrAccountInactive, wantErr: model.ErrAccountInactive, wantToken: "tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuthenticator{user: user, err: tt.authErr}
			cm := httpctx.NewManager()
			m := NewAuthenticate(auth, cm, testutil.MakeNoopLogger())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			c := echo.New().NewContext(req, httptest.NewRecorder())

			called := false
			err := m.Handle(func(c echo.Context) error {
				called = true
				got, ok := cm.GetUserFromContext(c.Request().Context())
				require.True(t, ok)
				assert.Equal(t, user.ID, got.ID)
				return nil
			})(c)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantToken, auth.token)
		})
	}
}

func TestAuthenticate_Handle_InternalErrorPassesThrough(t *testing.T) {
	boom := errors.New("db down")
	m := NewAuthenticate(&fakeAuthenticator{err: boom}, httpctx.NewManager(), testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer tok")
	c := echo.New().NewContext(req, httptest.NewRecorder())

	err := m.Handle(func(echo.Context) error { return nil })(c)
	assert.ErrorIs(t, err, boom)
}
