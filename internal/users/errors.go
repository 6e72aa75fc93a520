package users

import "errors"

// Sentinel errors for account operations. Handlers classify these with
// errors.Is; anything else is an internal fault and maps to a 500.
var (
	// ErrEmailTaken indicates the email is already registered. HTTP 409.
	ErrEmailTaken = errors.New("email already registered")

	// ErrNotRegistered indicates no user exists for the email. HTTP 401.
	ErrNotRegistered = errors.New("user not registered")

	// ErrIncorrectPassword indicates the hash comparison failed. HTTP 403.
	ErrIncorrectPassword = errors.New("incorrect password")

	// ErrUserNotFound indicates a token referenced a user that no longer
	// resolves. HTTP 401, and the session cookie is cleared.
	ErrUserNotFound = errors.New("user not found")
)
