package model

import (
	"context"
)

// ContextManager carries the authenticated user through a request context.
type ContextManager interface {
	SetUserToContext(ctx context.Context, user User) context.Context
	GetUserFromContext(ctx context.Context) (User, bool)
}
