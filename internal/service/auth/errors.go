package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingOwner indicates a token was requested or presented without a subject.
	ErrMissingOwner = errors.New("token owner is missing")

	// ErrAuthDisabled is returned when no signing secret is configured.
	ErrAuthDisabled = errors.New("token authentication is not configured")
)
