package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identify the authenticated principal. Kind separates user tokens
// from admin tokens; Role and CountyID are set for admins only. SessionHash
// ties the token to the server-side session record, so a revoked or evicted
// session invalidates the token before its expiry.
type Claims struct {
	PrincipalID string `json:"principal_id"`
	Kind        string `json:"kind"`
	Role        string `json:"role,omitempty"`
	CountyID    *int   `json:"county_id,omitempty"`
	SessionHash string `json:"session_hash,omitempty"`
	jwt.RegisteredClaims
}

func NewAccessToken(secret, issuer string, ttl time.Duration, claims Claims) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.PrincipalID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
