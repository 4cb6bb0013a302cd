package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

const dateLayout = "2006-01-02"

// AvatarPath is where the current user's avatar is served.
const AvatarPath = "/api/v1/auth/me/avatar"

type UserResponse struct {
	ID                    uuid.UUID      `json:"id"`
	Username              string         `json:"username"`
	Email                 string         `json:"email"`
	FirstName             string         `json:"first_name"`
	LastName              string         `json:"last_name"`
	FullName              string         `json:"full_name"`
	DisplayName           string         `json:"display_name"`
	FirebaseUID           *string        `json:"firebase_uid"`
	PhoneNumber           string         `json:"phone_number"`
	DateOfBirth           *string        `json:"date_of_birth"`
	CurrencyPreference    model.Currency `json:"currency_preference"`
	IsVerified            bool           `json:"is_verified"`
	FirebaseEmailVerified bool           `json:"firebase_email_verified"`
	FirebasePhoneVerified bool           `json:"firebase_phone_verified"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

func newUserResponse(u model.User) UserResponse {
	resp := UserResponse{
		ID:                    u.ID,
		Username:              u.Username,
		Email:                 u.Email,
		FirstName:             u.FirstName,
		LastName:              u.LastName,
		FullName:              u.FullName(),
		DisplayName:           u.DisplayName(),
		FirebaseUID:           u.ExternalUID,
		PhoneNumber:           u.PhoneNumber,
		CurrencyPreference:    u.CurrencyPreference,
		IsVerified:            u.IsVerified,
		FirebaseEmailVerified: u.ExternalEmailVerified,
		FirebasePhoneVerified: u.ExternalPhoneVerified,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
	if u.DateOfBirth != nil {
		dob := u.DateOfBirth.Format(dateLayout)
		resp.DateOfBirth = &dob
	}
	return resp
}

type ProfileResponse struct {
	ID                 uuid.UUID      `json:"id"`
	Avatar             *string        `json:"avatar"`
	Bio                string         `json:"bio"`
	AddressLine1       string         `json:"address_line1"`
	AddressLine2       string         `json:"address_line2"`
	City               string         `json:"city"`
	State              string         `json:"state"`
	PostalCode         string         `json:"postal_code"`
	Country            string         `json:"country"`
	FullAddress        string         `json:"full_address"`
	Language           model.Language `json:"language"`
	Timezone           string         `json:"timezone"`
	EmailNotifications bool           `json:"email_notifications"`
	PushNotifications  bool           `json:"push_notifications"`
	SMSNotifications   bool           `json:"sms_notifications"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func newProfileResponse(p model.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:                 p.ID,
		Bio:                p.Bio,
		AddressLine1:       p.Address.Line1,
		AddressLine2:       p.Address.Line2,
		City:               p.Address.City,
		State:              p.Address.State,
		PostalCode:         p.Address.PostalCode,
		Country:            p.Address.Country,
		FullAddress:        p.FullAddress(),
		Language:           p.Language,
		Timezone:           p.Timezone,
		EmailNotifications: p.EmailNotifications,
		PushNotifications:  p.PushNotifications,
		SMSNotifications:   p.SMSNotifications,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.Avatar != "" {
		avatar := AvatarPath
		resp.Avatar = &avatar
	}
	return resp
}

type AccountResponse struct {
	Success bool            `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	User    UserResponse    `json:"user"`
	Profile ProfileResponse `json:"profile"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

type VerifyResponse struct {
	Success     bool          `json:"success"`
	Message     string        `json:"message"`
	User        *UserResponse `json:"user,omitempty"`
	FirebaseUID string        `json:"firebase_uid,omitempty"`
}

type RegisterRequest struct {
	FirebaseUID string `json:"firebase_uid" validate:"required,max=128"`
	Email       string `json:"email" validate:"required,email,max=254"`
	FirstName   string `json:"first_name" validate:"max=30"`
	LastName    string `json:"last_name" validate:"max=30"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type StatusResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          UserResponse `json:"user"`
	FirebaseUID   *string      `json:"firebase_uid"`
	IsVerified    bool         `json:"is_verified"`
}

// UpdateRequest is the body of PUT /auth/me. Fields outside the patch structs,
// read-only ones included, are ignored.
type UpdateRequest struct {
	User    *UserPatchRequest    `json:"user"`
	Profile *ProfilePatchRequest `json:"profile"`
}

type UserPatchRequest struct {
	Email              *string `json:"email"`
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	PhoneNumber        *string `json:"phone_number"`
	DateOfBirth        *string `json:"date_of_birth"`
	CurrencyPreference *string `json:"currency_preference"`
}

func (r *UserPatchRequest) toPatch() (*model.UserPatch, error) {
	if r == nil {
		return nil, nil
	}
	patch := &model.UserPatch{
		Email:       r.Email,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
	}
	if r.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, strings.TrimSpace(*r.DateOfBirth))
		if err != nil {
			return nil, fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", model.ErrInvalidField)
		}
		patch.DateOfBirth = &dob
	}
	if r.CurrencyPreference != nil {
		currency := model.Currency(strings.ToUpper(*r.CurrencyPreference))
		patch.CurrencyPreference = &currency
	}
	return patch, nil
}

type ProfilePatchRequest struct {
	Bio                *string `json:"bio"`
	AddressLine1       *string `json:"address_line1"`
	AddressLine2       *string `json:"address_line2"`
	City               *string `json:"city"`
	State              *string `json:"state"`
	PostalCode         *string `json:"postal_code"`
	Country            *string `json:"country"`
	Language           *string `json:"language"`
	Timezone           *string `json:"timezone"`
	EmailNotifications *bool   `json:"email_notifications"`
	PushNotifications  *bool   `json:"push_notifications"`
	SMSNotifications   *bool   `json:"sms_notifications"`
}

func (r *ProfilePatchRequest) toPatch() *model.ProfilePatch {
	if r == nil {
		return nil
	}
	patch := &model.ProfilePatch{
		Bio:                r.Bio,
		AddressLine1:       r.AddressLine1,
		AddressLine2:       r.AddressLine2,
		City:               r.City,
		State:              r.State,
		PostalCode:         r.PostalCode,
		Country:            r.Country,
		Timezone:           r.Timezone,
		EmailNotifications: r.EmailNotifications,
		PushNotifications:  r.PushNotifications,
		SMSNotifications:   r.SMSNotifications,
	}
	if r.Language != nil {
		lang := model.Language(*r.Language)
		patch.Language = &lang
	}
	return patch
}
