package services

import "errors"

var (
	// ErrEntryNotFound is the single not-found signal for every entry
	// operation; there is no silent zero-rows-affected path.
	ErrEntryNotFound = errors.New("dictionary entry not found")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
