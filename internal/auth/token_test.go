package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestUserIDFromToken(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{"userId claim", jwt.MapClaims{"userId": "u1"}, "u1"},
		{"id claim", jwt.MapClaims{"id": "u2"}, "u2"},
		{"subject", jwt.MapClaims{"sub": "u3"}, "u3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UserIDFromToken("Bearer " + sign(t, tt.claims))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserIDFromTokenMissing(t *testing.T) {
	_, err := UserIDFromToken("")
	assert.ErrorIs(t, err, ErrNoUserID)

	_, err = UserIDFromToken(sign(t, jwt.MapClaims{"role": "seeker"}))
	assert.ErrorIs(t, err, ErrNoUserID)

	_, err = UserIDFromToken("not-a-jwt")
	assert.Error(t, err)
}
