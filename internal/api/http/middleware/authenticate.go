package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

// Authenticator resolves bearer tokens into active local users.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.User, error)
}

// Authenticate validates bearer tokens and injects the user into the request context.
type Authenticate struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(authenticator Authenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticator: authenticator, contextManager: contextManager, logger: logger}
}

// Handle parses the Authorization header, resolves the user and passes the
// request on with the user in its context.
func (m *Authenticate) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return model.ErrMissingToken
		}

		ctx := c.Request().Context()
		user, err := m.authenticator.Authenticate(ctx, token)
		if err != nil {
			if isAuthError(err) {
				m.logger.Warn("Authenticate middleware: token rejected",
					"path", c.Path(),
					"error", err.Error())
			}
			return err
		}

		m.logger.Debug("Authenticate middleware: user authenticated",
			"user_id", user.ID)

		c.SetRequest(c.Request().WithContext(m.contextManager.SetUserToContext(ctx, user)))
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func isAuthError(err error) bool {
	return errors.Is(err, model.ErrInvalidToken) ||
		errors.Is(err, model.ErrExpiredToken) ||
		errors.Is(err, model.ErrRevokedToken) ||
		errors.Is(err, model.ErrAccountInactive)
}
