package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 2 * time.Hour

// Claims is carried by the phone token issued after verification.
type Claims struct {
	PhoneID        string `json:"phone_id"`
	HasPhysical    bool   `json:"has_gym_assessment"`
	HasNutritional bool   `json:"has_nutritional_assessment"`
	jwt.RegisteredClaims
}

func GenerateToken(phoneID string, hasPhysical, hasNutritional bool, secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	claims := Claims{
		PhoneID:        phoneID,
		HasPhysical:    hasPhysical,
		HasNutritional: hasNutritional,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   phoneID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.PhoneID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
