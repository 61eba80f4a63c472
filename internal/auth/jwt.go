package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTMaker signs and verifies HS256 admin tokens.
type JWTMaker struct {
	secret []byte
	issuer string
}

func NewJWTMaker(secret, issuer string) *JWTMaker {
	return &JWTMaker{secret: []byte(secret), issuer: issuer}
}

func (m *JWTMaker) CreateToken(username string, ttl time.Duration) (string, *AdminClaims, error) {
	claims, err := NewAdminClaims(username, m.issuer, ttl)
	if err != nil {
		return "", nil, err
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, claims, nil
}

func (m *JWTMaker) VerifyToken(tokenStr string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	if !claims.IsAdmin {
		return nil, errors.New("token does not grant admin access")
	}
	return claims, nil
}
