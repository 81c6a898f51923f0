package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_LOGIN_TTL", "")
	t.Setenv("STORE_DRIVER", "")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.LoginTokenTTL)
	assert.Equal(t, time.Hour, cfg.SignupTokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.False(t, cfg.AllowAdminSignup)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingJWTSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_LOGIN_TTL", "720h")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("ALLOW_ADMIN_SIGNUP", "true")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("STORE_DRIVER", "memory")

	cfg := Load()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 720*time.Hour, cfg.LoginTokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.AllowAdminSignup)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{JWTSecret: "x", StoreDriver: "mongo", LoginTokenTTL: time.Hour, SignupTokenTTL: time.Hour}
	assert.Error(t, cfg.Validate())
}
