package jwts

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GetToken("table-7", "secret", time.Minute)
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	id, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if id != "table-7" {
		t.Fatalf("expected table-7, got %s", id)
	}
}

func TestParseTokenRejects(t *testing.T) {
	token, err := GetToken("table-7", "secret", time.Minute)
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if _, err := ParseToken(token, "other"); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
	if _, err := ParseToken("not-a-token", "secret"); err == nil {
		t.Fatalf("expected error for garbage token")
	}

	claims := &CustomClaims{
		ClientID: "table-7",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseToken(expired, "secret"); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestGetTokenEmptySecret(t *testing.T) {
	if _, err := GetToken("table-7", "", time.Minute); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
