package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")

	// ErrSigningSecretMissing is returned by the login path when no signing
	// secret was configured. The process itself keeps running; only token
	// issuance is unavailable.
	ErrSigningSecretMissing = errors.New("signing secret is not configured")
)

// TokenClaims are the claims carried by an issued token: the user it was
// issued to plus the issue/expiry instants. Nothing else — validity is
// determined purely by signature and expiry, there is no revocation list.
type TokenClaims struct {
	UserID    string    `json:"user_id"` // UUID stored as string in token
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (v4.local).
type TokenService interface {
	CreateToken(userID uuid.UUID, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// NewTokenService builds the token service selected by driver ("jwt" or
// "paseto") from the process-wide signing secret.
func NewTokenService(driver string, secret []byte) (TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrSigningSecretMissing
	}

	switch driver {
	case "paseto":
		return NewPasetoService(secret)
	default:
		return NewJWTService(secret)
	}
}
