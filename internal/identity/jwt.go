package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

const (
	typeID    = "id"
	typeReset = "reset"

	resetTTL = time.Hour
)

// Claims is the payload of tokens issued by JWT. Subject carries the
// external uid of ID tokens and the email of reset tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email         string  `json:"email,omitempty"`
	EmailVerified bool    `json:"email_verified,omitempty"`
	Name          string  `json:"name,omitempty"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	PhoneVerified bool    `json:"phone_number_verified,omitempty"`
	TokenType     string  `json:"typ"`
}

var _ model.IdentityOracle = (*JWT)(nil)

// JWT is a self-contained identity provider backed by symmetric HMAC. It is
// meant for local development and tests, where no Firebase project exists.
type JWT struct {
	secretKey   []byte
	issuer      string
	resetURL    string
	revocations model.RevocationStore
}

func NewJWT(secretKey, issuer, resetURL string, revocations model.RevocationStore) *JWT {
	return &JWT{
		secretKey:   []byte(secretKey),
		issuer:      issuer,
		resetURL:    resetURL,
		revocations: revocations,
	}
}

// IssueIDToken signs an ID token for claims. A zero claims.IssuedAt means now.
func (j *JWT) IssueIDToken(claims model.Claims, ttl time.Duration) (string, error) {
	issuedAt := claims.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   claims.ExternalUID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		PhoneNumber:   claims.PhoneNumber,
		PhoneVerified: claims.PhoneVerified,
		TokenType:     typeID,
	})

	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign id token: %w", err)
	}

	return signed, nil
}

func (j *JWT) VerifyToken(ctx context.Context, tokenString string) (model.Claims, error) {
	claims, err := j.parse(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Claims{}, model.ErrExpiredToken
		}
		return model.Claims{}, model.ErrInvalidToken
	}
	if claims.TokenType != typeID || claims.Subject == "" || claims.IssuedAt == nil {
		return model.Claims{}, model.ErrInvalidToken
	}

	revokedAt, err := j.revocations.RevokedAt(ctx, claims.Subject)
	if err != nil {
		return model.Claims{}, fmt.Errorf("failed to check token revocation: %w", err)
	}
	issuedAt := claims.IssuedAt.Time
	if !revokedAt.IsZero() && issuedAt.Before(revokedAt) {
		return model.Claims{}, model.ErrRevokedToken
	}

	return model.Claims{
		ExternalUID:   claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		PhoneNumber:   claims.PhoneNumber,
		PhoneVerified: claims.PhoneVerified,
		IssuedAt:      issuedAt,
	}, nil
}

// RevokeTokens invalidates every token of the subject issued before the
// current second.
func (j *JWT) RevokeTokens(ctx context.Context, externalUID string) error {
	if err := j.revocations.Revoke(ctx, externalUID, time.Now().UTC().Truncate(time.Second)); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return nil
}

// PasswordResetLink returns resetURL with a signed, short-lived reset code
// in the oobCode query parameter.
func (j *JWT) PasswordResetLink(_ context.Context, email string) (string, error) {
	u, err := url.Parse(j.resetURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse reset url: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(resetTTL)),
		},
		TokenType: typeReset,
	})
	code, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset code: %w", err)
	}

	q := u.Query()
	q.Set("mode", "resetPassword")
	q.Set("oobCode", code)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// parseResetCode validates a code produced by PasswordResetLink and returns the email.
func (j *JWT) parseResetCode(code string) (string, error) {
	claims, err := j.parse(code)
	if err != nil {
		return "", fmt.Errorf("failed to parse reset code: %w", err)
	}
	if claims.TokenType != typeReset {
		return "", fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	return claims.Subject, nil
}

func (j *JWT) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithIssuer(j.issuer), jwt.WithIssuedAt())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	return claims, nil
}
