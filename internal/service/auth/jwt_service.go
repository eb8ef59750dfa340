// Package auth mints and verifies the bearer tokens that identify the owner
// of stored results.
package auth

import (
	"context"
	"time"
)

// TokenService defines operations for owner bearer tokens.
type TokenService interface {
	// GenerateToken creates a signed token whose subject is ownerID.
	GenerateToken(ctx context.Context, ownerID string) (string, error)

	// ValidateToken validates the token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified content of a token.
type Claims struct {
	// OwnerID is the subject the token was issued for.
	OwnerID string

	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
