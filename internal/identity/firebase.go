package identity

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

// authClient is the subset of *auth.Client used by Firebase.
type authClient interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
	PasswordResetLink(ctx context.Context, email string) (string, error)
}

var _ model.IdentityOracle = (*Firebase)(nil)

// Firebase verifies Firebase Authentication ID tokens with the Admin SDK.
type Firebase struct {
	client authClient
}

// NewFirebase initializes the Admin SDK. An empty credentialsFile falls back
// to Application Default Credentials.
func NewFirebase(ctx context.Context, projectID, credentialsFile string) (*Firebase, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}

	return &Firebase{client: client}, nil
}

func (f *Firebase) VerifyToken(ctx context.Context, token string) (model.Claims, error) {
	decoded, err := f.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		switch {
		case auth.IsIDTokenExpired(err):
			return model.Claims{}, model.ErrExpiredToken
		case auth.IsIDTokenRevoked(err):
			return model.Claims{}, model.ErrRevokedToken
		case auth.IsIDTokenInvalid(err):
			return model.Claims{}, model.ErrInvalidToken
		}
		return model.Claims{}, fmt.Errorf("failed to verify firebase token: %w", err)
	}

	return claimsFromToken(decoded), nil
}

func (f *Firebase) RevokeTokens(ctx context.Context, externalUID string) error {
	if err := f.client.RevokeRefreshTokens(ctx, externalUID); err != nil {
		return fmt.Errorf("failed to revoke firebase tokens: %w", err)
	}
	return nil
}

func (f *Firebase) PasswordResetLink(ctx context.Context, email string) (string, error) {
	link, err := f.client.PasswordResetLink(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to generate password reset link: %w", err)
	}
	return link, nil
}

func claimsFromToken(tok *auth.Token) model.Claims {
	claims := model.Claims{
		ExternalUID:   tok.UID,
		Email:         stringClaim(tok.Claims, "email"),
		EmailVerified: boolClaim(tok.Claims, "email_verified"),
		Name:          stringClaim(tok.Claims, "name"),
		IssuedAt:      time.Unix(tok.IssuedAt, 0).UTC(),
	}
	if phone, ok := tok.Claims["phone_number"].(string); ok {
		claims.PhoneNumber = &phone
		claims.PhoneVerified = boolClaim(tok.Claims, "phone_number_verified")
	}
	return claims
}

func stringClaim(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}

func boolClaim(claims map[string]interface{}, key string) bool {
	v, _ := claims[key].(bool)
	return v
}
