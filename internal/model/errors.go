package model

import "errors"

// Lookup errors.
var (
	ErrNotFound = errors.New("not found")
)

// Identity oracle errors. All of them mean the caller is unauthenticated.
var (
	ErrMissingToken = errors.New("missing or invalid authorization header")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrRevokedToken = errors.New("token revoked")
)

// Uniqueness errors. ErrPersistenceConflict means a concurrent writer won a
// race and the caller should resolve again from scratch.
var (
	ErrDuplicateExternalUID = errors.New("user with this external uid already exists")
	ErrDuplicateEmail       = errors.New("user with this email already exists")
	ErrPersistenceConflict  = errors.New("concurrent write conflict")
)

// Input validation errors.
var (
	ErrNoFieldsProvided     = errors.New("at least one field must be provided for update")
	ErrInvalidPhoneFormat   = errors.New("please enter a valid phone number")
	ErrInvalidPostalCode    = errors.New("postal code must be at least 3 characters long")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrInvalidField         = errors.New("invalid field value")
)

// Account state errors.
var (
	ErrAccountNotLinked = errors.New("account is not linked to an external identity")
	ErrAccountInactive  = errors.New("account is deactivated")
)

// Avatar errors.
var (
	ErrUnsupportedMediaType = errors.New("unsupported avatar media type")
	ErrAvatarTooLarge       = errors.New("avatar exceeds size limit")
)
