// Package auth issues and reads the session of a user: password login,
// signed access tokens, and the per-request session lookup the access guard
// builds on.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/docdraft/internal/access"
	"github.com/golang-jwt/jwt/v5"
)

// Credentials is what login needs to know about a user.
type Credentials struct {
	UserID       int64
	PasswordHash string
	Status       string
}

type CredentialsRepository interface {
	// GetCredentialsByEmail returns ErrUnknownUser when no user has that email.
	GetCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
}

type IdentityRepository interface {
	// GetIdentity returns ErrUnknownUser when the user does not exist.
	GetIdentity(ctx context.Context, userID int64) (*access.Identity, error)
}

// TokenGenerator creates and checks access tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID int64) (string, time.Time, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Claims carries nothing but the user id; everything else is read from the
// store on each request.
type Claims struct {
	jwt.RegisteredClaims
}

var (
	ErrUnknownUser  = errors.New("unknown user")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
