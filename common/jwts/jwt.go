package jwts

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type CustomClaims struct {
	ClientID string `json:"clientID"`
	jwt.RegisteredClaims
}

// GetToken ttl 为 0 时不设置过期时间
func GetToken(clientID, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := &CustomClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  clientID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken 校验签名和过期时间，返回 clientID
func ParseToken(token, secret string) (string, error) {
	claims := &CustomClaims{}
	parse, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !parse.Valid || claims.ClientID == "" {
		return "", errors.New("token not valid")
	}
	return claims.ClientID, nil
}
