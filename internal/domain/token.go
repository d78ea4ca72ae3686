package domain

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Claims is the payload of both access and refresh tokens. Role is carried
// for clients only; authorization always uses the stored role.
type Claims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID `json:"userId"`
	Email    string    `json:"email"`
	Username string    `json:"username,omitempty"`
	Role     Role      `json:"role,omitempty"`
}
