package auth

import (
	"errors"
	"testing"
	"time"

	"brandhub/config"

	"github.com/golang-jwt/jwt/v5"
)

func TestParseAccessToken_RoundTrip(t *testing.T) {
	cfg := &config.JWTConfig{AccessSecret: "s3cret", Issuer: "brandhub"}
	tok, err := GenerateAccessToken(cfg, 9, "a@b.c", "ADMIN", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseAccessToken(cfg, tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 9 || claims.Role != "ADMIN" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseAccessToken_Rejects(t *testing.T) {
	cfg := &config.JWTConfig{AccessSecret: "s3cret", Issuer: "brandhub"}

	expired, _ := GenerateAccessToken(cfg, 9, "", "ADMIN", -time.Minute)
	wrongKey, _ := GenerateAccessToken(&config.JWTConfig{AccessSecret: "other", Issuer: "brandhub"}, 9, "", "ADMIN", time.Minute)
	wrongIssuer, _ := GenerateAccessToken(&config.JWTConfig{AccessSecret: "s3cret", Issuer: "someone-else"}, 9, "", "ADMIN", time.Minute)
	noUser, _ := GenerateAccessToken(cfg, 0, "", "ADMIN", time.Minute)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 9}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, tok := range map[string]string{
		"expired": expired, "wrong key": wrongKey, "wrong issuer": wrongIssuer,
		"no user": noUser, "alg none": none, "garbage": "not-a-token",
	} {
		if _, err := ParseAccessToken(cfg, tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: err = %v, want ErrInvalidToken", name, err)
		}
	}
}
