package services

import "errors"

// Error variables returned by the user service. Handlers match these with
// errors.Is to pick status codes.
var (
	ErrMissingFields      = errors.New("username, email and password are required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
