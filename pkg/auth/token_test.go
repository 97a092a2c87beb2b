package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/config"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "koyluce-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:    userID,
		Email:     "ayse@example.com",
		Name:      "Ayşe",
		Surname:   "Yılmaz",
		AdminFlag: true,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "ayse@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if !claims.AdminFlag {
		t.Fatal("expected admin flag to survive the round trip")
	}
	if claims.ID == "" {
		t.Fatal("expected a jti")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	cfg := testJWTConfig()

	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{Email: "a@b.c"}); err == nil {
		t.Fatal("expected error for missing user id")
	}
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()}); err == nil {
		t.Fatal("expected error for missing email")
	}

	broken := cfg
	broken.Secret = ""
	if _, err := MintAccessToken(broken, time.Now(), AccessTokenPayload{UserID: uuid.New(), Email: "a@b.c"}); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "ali@example.com",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "ali@example.com",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	_, err = ParseAccessToken(cfg, signed)
	if err == nil {
		t.Fatal("expected expiry error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiry in error, got %v", err)
	}
}
