package main

import (
	"testing"
	"time"

	"personaforge/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{ID: 7, Email: "ada@example.com", IsActive: true}
}

func TestMintAndParseAccessToken(t *testing.T) {
	signed, jti, err := mintToken(testUser(), tokenTypeAccess, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, signed)
	require.NotEmpty(t, jti)

	claims, err := parseToken(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, tokenTypeAccess, claims.TokenType)
	assert.Equal(t, jti, claims.JTI)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestMintPair(t *testing.T) {
	pair, err := mintPair(testUser())
	require.NoError(t, err)
	assert.Equal(t, "7", pair.User)
	assert.Equal(t, "ada@example.com", pair.Email)

	access, err := parseToken(pair.Access)
	require.NoError(t, err)
	refresh, err := parseToken(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, tokenTypeAccess, access.TokenType)
	assert.Equal(t, tokenTypeRefresh, refresh.TokenType)
	assert.NotEqual(t, access.JTI, refresh.JTI)
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt))
}

func TestParseRejectsExpiredToken(t *testing.T) {
	signed, _, err := mintToken(testUser(), tokenTypeAccess, -time.Minute)
	require.NoError(t, err)

	_, err = parseToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    7,
		"token_type": tokenTypeAccess,
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = parseToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := parseToken(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tok)
	}
}

func TestParseRejectsMissingSubject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"token_type": tokenTypeAccess,
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwtSecret)
	require.NoError(t, err)

	_, err = parseToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
