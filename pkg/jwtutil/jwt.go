package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// MerchantClaims represents the JWT claims identifying an authenticated merchant.
// Tokens are issued by the merchant auth service; this module only validates them.
type MerchantClaims struct {
	Email      string `json:"email"`
	MerchantID uint   `json:"merchant_id"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *JWTConfig
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config *JWTConfig) *JWTUtil {
	return &JWTUtil{
		config: config,
	}
}

// GenerateToken creates a JWT token carrying the merchant identity
func (j *JWTUtil) GenerateToken(email string, merchantID uint) (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}

	signingKey := j.config.SigningKey
	expirationHours := j.config.ExpirationHours

	claims := MerchantClaims{
		Email:      email,
		MerchantID: merchantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(signingKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*MerchantClaims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	signingKey := j.config.SigningKey

	token, err := jwt.ParseWithClaims(
		tokenString,
		&MerchantClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(signingKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*MerchantClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
