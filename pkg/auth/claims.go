package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	Email     string
	Name      string
	Surname   string
	AdminFlag bool
}

// AccessTokenClaims represents the typed JWT issued to clients. The
// email claim is the one the API trusts: middleware resolves it back
// to a user row before any protected operation proceeds.
type AccessTokenClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	AdminFlag bool      `json:"admin_flag"`
	jwt.RegisteredClaims
}
