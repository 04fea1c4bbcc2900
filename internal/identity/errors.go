package identity

import "errors"

// Identity errors.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMissingFields      = errors.New("name, email, and password are required")
	ErrInvalidRole        = errors.New("invalid role")
	ErrAdminRoleForbidden = errors.New("only an admin can grant the admin role")
	ErrCannotDemoteSelf   = errors.New("admins cannot remove their own admin role")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrFieldTooLong       = errors.New("name and email must be at most 255 characters")
)
