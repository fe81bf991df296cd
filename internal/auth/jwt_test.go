package auth

import (
	"testing"
	"time"

	"qipad/config"

	"github.com/golang-jwt/jwt/v5"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "qipad",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 42, "asha@example.com", "INVESTOR")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "asha@example.com" || claims.Role != "INVESTOR" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != "qipad" {
		t.Errorf("issuer = %s", claims.Issuer)
	}
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 42, "asha@example.com", "INVESTOR")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	other := testJWTConfig()
	other.AccessSecret = "different"
	if _, err := ParseAccessToken(other, token); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseAccessTokenRejectsUnsignedAlgorithm(t *testing.T) {
	claims := Claims{UserID: 42}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseAccessToken(testJWTConfig(), token); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken for alg=none", err)
	}
}

func TestParseAccessTokenGarbage(t *testing.T) {
	if _, err := ParseAccessToken(testJWTConfig(), "not.a.token"); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshTokenSubject(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateRefreshToken(cfg, 42)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.RefreshSecret), nil
	})
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if claims.Subject != "42" {
		t.Errorf("subject = %s, want 42", claims.Subject)
	}
}
