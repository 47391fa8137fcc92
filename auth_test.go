package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", normalizeEmail("  Ada@Example.COM "))
	assert.Equal(t, "", normalizeEmail("   "))
}

func TestHashPasswordPolicy(t *testing.T) {
	_, err := hashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	hash, err := hashPassword("secret1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("secret1")))
	assert.Error(t, bcrypt.CompareHashAndPassword(hash, []byte("secret2")))
}
