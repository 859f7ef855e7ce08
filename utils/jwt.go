package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Token type constants. Admin and super admin tokens are disjoint: a token
// of one type never authorizes routes of the other tier.
const (
	TokenTypeAdmin      = "admin"
	TokenTypeSuperAdmin = "super_admin"
)

// JWTClaims represents the claims in the JWT token
type JWTClaims struct {
	AccountID int64  `json:"id"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// GenerateJWT generates a new signed token for the given account and tier
func GenerateJWT(secret string, accountID int64, tokenType string, expTime time.Time) (string, error) {
	claims := JWTClaims{
		AccountID: accountID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT validates a JWT token and extracts its claims
func ValidateJWT(secret, tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
