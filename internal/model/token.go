package model

import (
	"context"
	"time"
)

// IdentityOracle is the external identity provider. VerifyToken must be
// side-effect free; it returns ErrInvalidToken, ErrExpiredToken or
// ErrRevokedToken for rejected tokens and a wrapped error for anything else.
type IdentityOracle interface {
	VerifyToken(ctx context.Context, token string) (Claims, error)
	RevokeTokens(ctx context.Context, externalUID string) error
	PasswordResetLink(ctx context.Context, email string) (string, error)
}

// Claims is the verified payload of an identity token.
type Claims struct {
	ExternalUID   string
	Email         string
	EmailVerified bool
	Name          string
	PhoneNumber   *string
	PhoneVerified bool
	IssuedAt      time.Time
}

// RevocationStore keeps the per-subject cut-off before which tokens are revoked.
// RevokedAt returns the zero time for subjects that were never revoked.
type RevocationStore interface {
	RevokedAt(ctx context.Context, externalUID string) (time.Time, error)
	Revoke(ctx context.Context, externalUID string, at time.Time) error
}
