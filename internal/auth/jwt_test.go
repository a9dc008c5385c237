package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	countyID := 12
	token, err := NewAccessToken("secret", "issuer", 10*time.Minute, Claims{
		PrincipalID: "admin-1",
		Kind:        "admin",
		Role:        "sub",
		CountyID:    &countyID,
	})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.PrincipalID != "admin-1" || claims.Kind != "admin" || claims.Role != "sub" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.CountyID == nil || *claims.CountyID != 12 {
		t.Fatalf("expected county 12, got %v", claims.CountyID)
	}
}

func TestParseTokenRejectsBadSecret(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", 10*time.Minute, Claims{
		PrincipalID: "user-1",
		Kind:        "user",
	})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", -time.Minute, Claims{
		PrincipalID: "user-1",
		Kind:        "user",
	})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatalf("expected parse failure for expired token")
	}
}
