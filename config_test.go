package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"ADDR", "DB_DSN", "DB_AUTO_MIGRATE", "JWT_SECRET",
	"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "RESET_TOKEN_TTL",
}

// clearConfigEnv unsets every config variable for the duration of the test
// and moves to an empty directory so no stray .env file interferes.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "") // registers restore on cleanup
		os.Unsetenv(k)
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	c, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8081", c.Addr)
	assert.Empty(t, c.DatabaseDSN)
	assert.True(t, c.AutoMigrate)
	assert.Equal(t, "dev-insecure-secret-change", c.JWTSecret)
	assert.Equal(t, 15*time.Minute, c.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, c.RefreshTokenTTL)
	assert.Equal(t, time.Hour, c.ResetTokenTTL)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ADDR", ":9000")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	c, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, "prod-secret", c.JWTSecret)
	assert.Equal(t, 5*time.Minute, c.AccessTokenTTL)
	assert.False(t, c.AutoMigrate)
}

func TestLoadDotEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", "from-real-env")

	content := "# comment\nJWT_SECRET=from-dotenv\nADDR = :7777\n\nBROKEN LINE\n"
	require.NoError(t, os.WriteFile(filepath.Join(".", ".env"), []byte(content), 0o600))

	loadDotEnv()

	// already-set variables are not overwritten; new ones are picked up
	assert.Equal(t, "from-real-env", os.Getenv("JWT_SECRET"))
	assert.Equal(t, ":7777", os.Getenv("ADDR"))
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	clearConfigEnv(t)
	loadDotEnv() // must not panic or create anything
	assert.Empty(t, os.Getenv("ADDR"))
}
