package auth

import (
	"context"

	"github.com/dgrijalva/jwt-go"

	"github.com/urbancoll/artisanhub-backend/internal/modules/user"
)

// Claims are the JWT claims issued for both access and refresh tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// TokenPair is a short-lived access token plus a longer-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role,omitempty"`
}

// Service defines the interface for authentication business logic.
type Service interface {
	// Register creates a user with a bcrypt-hashed password and returns a
	// fresh credential pair.
	Register(ctx context.Context, req RegisterRequest) (*user.User, *TokenPair, error)

	// Login checks the password and returns a fresh credential pair. The
	// error is identical for unknown email and wrong password.
	Login(ctx context.Context, email, password string) (*user.User, *TokenPair, error)

	// Refresh re-issues a credential pair from a valid existing token.
	Refresh(token string) (*TokenPair, error)

	// Verify returns the decoded claims, or nil when the token is invalid
	// or expired. It never blocks on I/O.
	Verify(token string) *Claims
}
