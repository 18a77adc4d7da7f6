// Package auth reads identity out of the marketplace access token.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoUserID is returned when the token carries no recognised user claim.
var ErrNoUserID = errors.New("access token has no user id claim")

// UserIDFromToken extracts the user id without verifying the signature.
// The backend verifies every request; the client only needs to know who it is.
func UserIDFromToken(token string) (string, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return "", ErrNoUserID
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse access token: %w", err)
	}

	for _, key := range []string{"userId", "id", "_id"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v, nil
		}
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	return "", ErrNoUserID
}
