package auth

import "errors"

var (
	ErrNotFound           = errors.New("auth: not found")
	ErrAlreadyExists      = errors.New("auth: already exists")
	ErrInvalidInput       = errors.New("auth: invalid input")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidToken       = errors.New("auth: invalid or expired token")
	ErrNotAuthorizedRole  = errors.New("auth: role not authorized for this channel")
	ErrNoDashboardAccess  = errors.New("auth: dashboard access not granted")
	ErrInactiveAccount    = errors.New("auth: account is inactive")
	ErrMissingCapability  = errors.New("auth: missing capability")
	ErrWrongTenant        = errors.New("auth: resource belongs to another tenant")
)
