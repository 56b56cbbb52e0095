package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims carried by access and refresh tokens. The tenant
// id and role travel with the token so middleware can enforce the permission
// model without a catalog lookup.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	TenantID  string `json:"tenant_id,omitempty"`
	Role      Role   `json:"role,omitempty"`
	TokenType string `json:"token_type"`
}

// TokenPair is the access/refresh token bundle returned on login and refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
}
