// Package tokens выпускает и проверяет JWT аккаунтов.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenExpired = errors.New("token expired")

type AccountClaims struct {
	jwt.RegisteredClaims
	ID int64
}

func GenerateAccountJWT(id int64, expire time.Duration, key []byte) (string, error) {
	claims := AccountClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		ID: id,
	}
	token, err := generateJWT(claims, key)
	if err != nil {
		return "", fmt.Errorf("generating account jwt token: %s", err.Error())
	}
	return token, nil
}

func ValidateAccountJWT(tokenString string, key []byte) (*AccountClaims, error) {
	token, err := validateJWT(tokenString, new(AccountClaims), key)
	if err != nil {
		return nil, fmt.Errorf("validating account jwt token: %w", err)
	}

	claims, ok := token.Claims.(*AccountClaims)
	if !ok || claims.ID <= 0 {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

func generateJWT(claims jwt.Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("generating jwt token: %s", err.Error())
	}
	return tokenString, nil
}

func validateJWT(tokenString string, claims jwt.Claims, key []byte) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("parsing jwt token: %w", err)
	}
	return token, nil
}
