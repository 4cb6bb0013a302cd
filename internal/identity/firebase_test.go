package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthClient struct {
	token     *auth.Token
	verifyErr error

	revokedUID string
	revokeErr  error

	link    string
	linkErr error
}

func (f *fakeAuthClient) VerifyIDTokenAndCheckRevoked(_ context.Context, _ string) (*auth.Token, error) {
	return f.token, f.verifyErr
}

func (f *fakeAuthClient) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revokedUID = uid
	return f.revokeErr
}

func (f *fakeAuthClient) PasswordResetLink(_ context.Context, _ string) (string, error) {
	return f.link, f.linkErr
}

func TestFirebase_VerifyToken(t *testing.T) {
	issued := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	client := &fakeAuthClient{token: &auth.Token{
		UID:      "u1",
		IssuedAt: issued.Unix(),
		Claims: map[string]interface{}{
			"email":                 "a@example.com",
			"email_verified":        true,
			"name":                  "Ann Lee",
			"phone_number":          "+15550100",
			"phone_number_verified": true,
		},
	}}
	f := &Firebase{client: client}

	claims, err := f.VerifyToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.ExternalUID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.True(t, claims.EmailVerified)
	assert.Equal(t, "Ann Lee", claims.Name)
	require.NotNil(t, claims.PhoneNumber)
	assert.Equal(t, "+15550100", *claims.PhoneNumber)
	assert.True(t, claims.PhoneVerified)
	assert.True(t, issued.Equal(claims.IssuedAt))
}

func TestFirebase_VerifyToken_MissingClaims(t *testing.T) {
	f := &Firebase{client: &fakeAuthClient{token: &auth.Token{UID: "u1", Claims: map[string]interface{}{
		"email_verified": "yes",
	}}}}

	claims, err := f.VerifyToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, claims.Email)
	assert.False(t, claims.EmailVerified)
	assert.Nil(t, claims.PhoneNumber)
}

func TestFirebase_VerifyToken_ProviderFailure(t *testing.T) {
	f := &Firebase{client: &fakeAuthClient{verifyErr: errors.New("fetch keys: timeout")}}

	_, err := f.VerifyToken(context.Background(), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestFirebase_RevokeTokens(t *testing.T) {
	client := &fakeAuthClient{}
	f := &Firebase{client: client}

	require.NoError(t, f.RevokeTokens(context.Background(), "u1"))
	assert.Equal(t, "u1", client.revokedUID)

	client.revokeErr = errors.New("denied")
	assert.Error(t, f.RevokeTokens(context.Background(), "u1"))
}

func TestFirebase_PasswordResetLink(t *testing.T) {
	client := &fakeAuthClient{link: "https://example.firebaseapp.com/__/auth/action?oobCode=x"}
	f := &Firebase{client: client}

	link, err := f.PasswordResetLink(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, client.link, link)

	client.linkErr = errors.New("EMAIL_NOT_FOUND")
	_, err = f.PasswordResetLink(context.Background(), "a@example.com")
	assert.Error(t, err)
}
