package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByExternalUID(ctx context.Context, externalUID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string, exceptID uuid.UUID) (bool, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
}

// Currency is a user's preferred display currency.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
)

// DefaultCurrency is assigned to every new user.
const DefaultCurrency = CurrencyUSD

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyJPY, CurrencyCAD, CurrencyAUD:
		return true
	}
	return false
}

// User represents a local account, optionally linked to an external identity.
type User struct {
	ID                    uuid.UUID
	Username              string
	Email                 string
	ExternalUID           *string
	FirstName             string
	LastName              string
	PhoneNumber           string
	DateOfBirth           *time.Time
	CurrencyPreference    Currency
	IsVerified            bool
	ExternalEmailVerified bool
	ExternalPhoneVerified bool
	IsActive              bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// FullName returns "first last" when both are set, otherwise the username.
func (u User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}

// DisplayName returns the best human-readable name for the user.
func (u User) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.Username
}

// LinkedUID returns the external identity subject or an empty string.
func (u User) LinkedUID() string {
	if u.ExternalUID == nil {
		return ""
	}
	return *u.ExternalUID
}

// UserPatch holds the user fields a client may change. Nil means "leave as is".
type UserPatch struct {
	Email              *string
	FirstName          *string
	LastName           *string
	PhoneNumber        *string
	DateOfBirth        *time.Time
	CurrencyPreference *Currency
}

// Empty reports whether the patch carries no changes.
func (p *UserPatch) Empty() bool {
	return p == nil || (p.Email == nil && p.FirstName == nil && p.LastName == nil &&
		p.PhoneNumber == nil && p.DateOfBirth == nil && p.CurrencyPreference == nil)
}

// Apply copies every set field onto u.
func (p *UserPatch) Apply(u *User) {
	if p == nil {
		return
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		u.DateOfBirth = &dob
	}
	if p.CurrencyPreference != nil {
		u.CurrencyPreference = *p.CurrencyPreference
	}
}
