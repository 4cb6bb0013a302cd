package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

// MaxResolveAttempts bounds how often Authenticate re-runs user resolution
// after losing a uniqueness race.
const MaxResolveAttempts = 3

const resetMailSubject = "Reset your Finnacle password"

// Account implements the token-driven account flows built on the reconciler.
type Account struct {
	reconciler *Reconciler
	oracle     model.IdentityOracle
	users      model.UserStore
	mailer     model.Mailer
	logger     *logger.Logger
}

func NewAccount(
	reconciler *Reconciler,
	oracle model.IdentityOracle,
	store model.Transactor,
	mailer model.Mailer,
	logger *logger.Logger,
) *Account {
	return &Account{
		reconciler: reconciler,
		oracle:     oracle,
		users:      store.Users(),
		mailer:     mailer,
		logger:     logger,
	}
}

// Authenticate turns a bearer token into an active local user, creating the
// user on first sight.
func (a *Account) Authenticate(ctx context.Context, token string) (model.User, error) {
	claims, err := a.reconciler.VerifyAndResolve(ctx, token)
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	for attempt := 1; ; attempt++ {
		user, err = a.reconciler.ResolveUser(ctx, claims)
		if err == nil {
			break
		}
		if !errors.Is(err, model.ErrPersistenceConflict) || attempt >= MaxResolveAttempts {
			return model.User{}, err
		}
		a.logger.Debug("Account service: retrying user resolution",
			"external_uid", claims.ExternalUID,
			"attempt", attempt)
	}

	if !user.IsActive {
		a.logger.Info("Account service: inactive user rejected",
			"user_id", user.ID)
		return model.User{}, model.ErrAccountInactive
	}

	return user, nil
}

// VerifyToken verifies token and looks up the linked user without creating
// one. When no user is linked the verified claims are returned together with
// model.ErrNotFound.
func (a *Account) VerifyToken(ctx context.Context, token string) (model.User, model.Claims, error) {
	claims, err := a.reconciler.VerifyAndResolve(ctx, token)
	if err != nil {
		return model.User{}, model.Claims{}, err
	}

	user, err := a.users.GetByExternalUID(ctx, claims.ExternalUID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, claims, model.ErrNotFound
		}
		return model.User{}, claims, fmt.Errorf("failed to get user by external uid: %w", err)
	}

	return user, claims, nil
}

// Logout revokes every outstanding token of the user at the identity provider.
func (a *Account) Logout(ctx context.Context, user model.User) error {
	uid := user.LinkedUID()
	if uid == "" {
		return model.ErrAccountNotLinked
	}

	if err := a.oracle.RevokeTokens(ctx, uid); err != nil {
		a.logger.Error("Account service: failed to revoke tokens",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}

	a.logger.Info("Account service: user logged out",
		"user_id", user.ID)

	return nil
}

// ForgotPassword mails a password reset link to a linked account. The result
// is the same whether or not the email belongs to an account.
func (a *Account) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email", model.ErrMissingRequiredField)
	}
	if err := validate.Var(email, "email"); err != nil {
		return model.ErrInvalidEmail
	}

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			a.logger.Error("Account service: failed to get user by email",
				"email", maskEmail(email),
				"error", err.Error())
		}
		return nil
	}
	if user.LinkedUID() == "" {
		a.logger.Info("Account service: password reset for unlinked user skipped",
			"user_id", user.ID)
		return nil
	}

	link, err := a.oracle.PasswordResetLink(ctx, user.Email)
	if err != nil {
		a.logger.Error("Account service: failed to generate reset link",
			"user_id", user.ID,
			"error", err.Error())
		return nil
	}

	if err := a.mailer.Send(ctx, resetMail(user, link)); err != nil {
		a.logger.Error("Account service: failed to send reset mail",
			"user_id", user.ID,
			"error", err.Error())
		return nil
	}

	a.logger.Info("Account service: reset mail sent",
		"user_id", user.ID)

	return nil
}

// maskEmail keeps the first character of the local part and the domain.
func maskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

func resetMail(user model.User, link string) model.Mail {
	name := user.DisplayName()
	return model.Mail{
		To:      user.Email,
		Subject: resetMailSubject,
		Text: fmt.Sprintf("Hello %s,\n\nFollow this link to reset your password:\n%s\n\n"+
			"If you did not ask to reset your password, ignore this email.\n", name, link),
		HTML: fmt.Sprintf("<p>Hello %s,</p><p><a href=\"%s\">Reset your password</a></p>"+
			"<p>If you did not ask to reset your password, ignore this email.</p>",
			html.EscapeString(name), html.EscapeString(link)),
	}
}
