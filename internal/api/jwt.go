package api

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 7 * 24 * time.Hour

// UserInfo identifies the player behind a validated token.
type UserInfo struct {
	UserID   int
	Username string
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// createJWT generates a new JWT for a given user
func createJWT(userID int, username, secret string) (string, error) {
	now := time.Now()
	c := claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(secret))
}

func (s *APIServer) validateJWT(tokenString string) (*UserInfo, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	userID, err := strconv.Atoi(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("token subject %q is not a user id", c.Subject)
	}
	return &UserInfo{UserID: userID, Username: c.Username}, nil
}
