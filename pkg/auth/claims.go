package auth

import (
	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID string
	Phone  string
	Role   enums.ActorRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to customers and admins.
type AccessTokenClaims struct {
	UserID string          `json:"user_id"`
	Phone  string          `json:"phone,omitempty"`
	Role   enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
