package jwthelper

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// ActorClaims identifies the in-world actor a token was issued to.
type ActorClaims struct {
	ActorName string `json:"actor_name"`
	Realm     uint8  `json:"realm"`
	UserAgent string `json:"user_agent"`
	jwt.RegisteredClaims
}

func GenerateToken(key []byte, actorName string, realm uint8, userAgent string) (string, error) {
	now := time.Now()
	claims := ActorClaims{
		ActorName: actorName,
		Realm:     realm,
		UserAgent: userAgent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("token.SignedString -> %w", err)
	}

	return signed, nil
}

func ParseToken(key []byte, tokenStr string) (*ActorClaims, error) {
	claims := &ActorClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ActorName == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
