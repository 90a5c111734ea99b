package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID   string `json:"uid"`
	OrgID    string `json:"oid"`
	RoleName string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Subject:   claims.UserID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies an HS256 token issued by the identity provider. Tokens
// without an organization are rejected since every request is org scoped.
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.OrgID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserContext is the authenticated caller attached to a request.
type UserContext struct {
	UserID   string
	OrgID    string
	RoleName string
}
