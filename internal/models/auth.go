package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload of provider-issued access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Username string   `json:"username"`
	jwt.RegisteredClaims
}
