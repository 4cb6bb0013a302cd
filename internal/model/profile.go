package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProfileStore defines persistence operations for user profiles.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	Create(ctx context.Context, profile Profile) (Profile, error)
	Update(ctx context.Context, profile Profile) (Profile, error)
}

// Language is a supported interface language.
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageSpanish    Language = "es"
	LanguageFrench     Language = "fr"
	LanguageGerman     Language = "de"
	LanguageItalian    Language = "it"
	LanguagePortuguese Language = "pt"
	LanguageRussian    Language = "ru"
	LanguageChinese    Language = "zh"
	LanguageJapanese   Language = "ja"
	LanguageKorean     Language = "ko"
)

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageSpanish, LanguageFrench, LanguageGerman, LanguageItalian,
		LanguagePortuguese, LanguageRussian, LanguageChinese, LanguageJapanese, LanguageKorean:
		return true
	}
	return false
}

const (
	// DefaultTimezone is assigned to newly provisioned profiles.
	DefaultTimezone = "UTC"
	// MaxBioLength bounds Profile.Bio in characters.
	MaxBioLength = 500
	// MinPostalCodeLength is the shortest accepted postal code.
	MinPostalCodeLength = 3
	// NoAddress is what FullAddress returns when no address part is set.
	NoAddress = "No address provided"
)

// Address is a postal address; every part is optional.
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Profile holds the non-identity attributes of a user. It is owned by exactly one user.
type Profile struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Avatar             string
	Bio                string
	Address            Address
	Language           Language
	Timezone           string
	EmailNotifications bool
	PushNotifications  bool
	SMSNotifications   bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewProfile returns a profile with default settings for the given user.
func NewProfile(userID uuid.UUID) Profile {
	return Profile{
		ID:                 uuid.New(),
		UserID:             userID,
		Language:           LanguageEnglish,
		Timezone:           DefaultTimezone,
		EmailNotifications: true,
		PushNotifications:  true,
		SMSNotifications:   false,
	}
}

// FullAddress joins the non-empty address parts with ", ".
func (p Profile) FullAddress() string {
	parts := make([]string, 0, 6)
	for _, part := range []string{
		p.Address.Line1, p.Address.Line2, p.Address.City,
		p.Address.State, p.Address.PostalCode, p.Address.Country,
	} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return NoAddress
	}
	return strings.Join(parts, ", ")
}

// ProfilePatch holds the profile fields a client may change. Nil means "leave as is".
type ProfilePatch struct {
	Bio                *string
	AddressLine1       *string
	AddressLine2       *string
	City               *string
	State              *string
	PostalCode         *string
	Country            *string
	Language           *Language
	Timezone           *string
	EmailNotifications *bool
	PushNotifications  *bool
	SMSNotifications   *bool
}

// Empty reports whether the patch carries no changes.
func (p *ProfilePatch) Empty() bool {
	return p == nil || (p.Bio == nil && p.AddressLine1 == nil && p.AddressLine2 == nil &&
		p.City == nil && p.State == nil && p.PostalCode == nil && p.Country == nil &&
		p.Language == nil && p.Timezone == nil && p.EmailNotifications == nil &&
		p.PushNotifications == nil && p.SMSNotifications == nil)
}

// Apply copies every set field onto pr.
func (p *ProfilePatch) Apply(pr *Profile) {
	if p == nil {
		return
	}
	setString(&pr.Bio, p.Bio)
	setString(&pr.Address.Line1, p.AddressLine1)
	setString(&pr.Address.Line2, p.AddressLine2)
	setString(&pr.Address.City, p.City)
	setString(&pr.Address.State, p.State)
	setString(&pr.Address.PostalCode, p.PostalCode)
	setString(&pr.Address.Country, p.Country)
	setString(&pr.Timezone, p.Timezone)
	if p.Language != nil {
		pr.Language = *p.Language
	}
	setBool(&pr.EmailNotifications, p.EmailNotifications)
	setBool(&pr.PushNotifications, p.PushNotifications)
	setBool(&pr.SMSNotifications, p.SMSNotifications)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
