package context

import (
	"context"

	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

type userKey struct{}

var _ model.ContextManager = (*Manager)(nil)

// Manager stores the authenticated user in a request context.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserToContext returns a copy of ctx carrying user.
func (m *Manager) SetUserToContext(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUserFromContext retrieves the user set by SetUserToContext.
func (m *Manager) GetUserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userKey{}).(model.User)
	return user, ok
}
