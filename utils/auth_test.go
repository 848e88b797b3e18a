package utils

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWT_RoundTrip(t *testing.T) {
	tokenStr, err := GenerateJWT("64f1c0ffee0000000000abcd", "farmer")
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, "64f1c0ffee0000000000abcd", claims.UserID)
	assert.Equal(t, "farmer", claims.Role)
	assert.Greater(t, claims.ExpiresAt, time.Now().Unix())
}

func TestGenerateJWT_RejectsWrongKey(t *testing.T) {
	tokenStr, err := GenerateJWT("someid", "buyer")
	require.NoError(t, err)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("a different secret"), nil
	})
	assert.Error(t, err)
}
