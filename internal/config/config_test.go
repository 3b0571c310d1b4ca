package config

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("IDENTITY_PROJECT_ID", "")
	t.Setenv("IDENTITY_ISSUER", "")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "*", cfg.CORSOrigins)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, defaultJWKSURL, cfg.IdentityJWKSURL)
	assert.Empty(t, cfg.IdentityIssuer)
}

func TestLoadProjectFromServiceAccount(t *testing.T) {
	blob := base64.StdEncoding.EncodeToString([]byte(`{"type":"service_account","project_id":"app-orbit"}`))
	t.Setenv("IDENTITY_PROJECT_ID", "")
	t.Setenv("IDENTITY_ISSUER", "")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT", blob)

	cfg := Load()

	assert.Equal(t, "app-orbit", cfg.IdentityProjectID)
	assert.Equal(t, "https://securetoken.google.com/app-orbit", cfg.IdentityIssuer)
}

func TestProjectIDFromServiceAccount_Invalid(t *testing.T) {
	_, err := ProjectIDFromServiceAccount("not base64!!")
	require.Error(t, err)

	_, err = ProjectIDFromServiceAccount(base64.StdEncoding.EncodeToString([]byte(`{}`)))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{StoreDriver: StoreDriverPostgres, IdentityProjectID: "p"}
	assert.Error(t, cfg.Validate())

	cfg.DBPassword = "secret"
	assert.NoError(t, cfg.Validate())

	cfg = &Config{StoreDriver: StoreDriverMemory}
	assert.Error(t, cfg.Validate())

	cfg.IdentityProjectID = "p"
	assert.NoError(t, cfg.Validate())

	cfg.StoreDriver = "mongo"
	assert.Error(t, cfg.Validate())
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 5, parseInt("5", 1))
	assert.Equal(t, 1, parseInt("x", 1))
	assert.Equal(t, 1, parseInt("-3", 1))
	assert.True(t, parseBool("true"))
	assert.False(t, parseBool("nope"))
}
