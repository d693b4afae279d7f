package identity

import "errors"

var (
	// ErrEmailExists is returned when registering an already-registered email.
	ErrEmailExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned for unknown email, wrong password or
	// an inactive user. Login never distinguishes between the three.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a bearer token is missing, malformed,
	// expired, or references a user that no longer exists.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUserNotFound is returned when a user lookup finds no row.
	ErrUserNotFound = errors.New("user not found")

	// ErrOrganizationNotFound is returned when an organization lookup finds no row.
	ErrOrganizationNotFound = errors.New("organization not found")
)
