package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWT(t *testing.T) {
	secret := "supersecret"
	phoneID := "5f1c2c7e-0000-4000-8000-000000000001"

	token, err := GenerateToken(phoneID, true, false, secret, time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if claims.PhoneID != phoneID {
		t.Errorf("Expected PhoneID %s, got %s", phoneID, claims.PhoneID)
	}

	if !claims.HasPhysical || claims.HasNutritional {
		t.Errorf("Expected physical flag only, got %+v", claims)
	}

	_, err = ValidateToken(token, "wrongsecret")
	if err == nil {
		t.Errorf("Expected error with wrong secret")
	}
}

func TestJWTExpired(t *testing.T) {
	secret := "supersecret"

	claims := Claims{
		PhoneID: "phone-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := ValidateToken(token, secret); err == nil {
		t.Errorf("Expected error for expired token")
	}
	if _, err := ValidateToken("not-a-token", secret); err == nil {
		t.Errorf("Expected error for malformed token")
	}
}
