package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, "petconnect", cfg.MongoDatabase)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "10M", cfg.BodyLimit)
	assert.Equal(t, "Administrator", cfg.Admin.FullName)
	assert.False(t, cfg.Admin.Create)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_EXPIRES_IN", "30m")
	t.Setenv("CREATE_ADMIN", "true")
	t.Setenv("ADMIN_EMAIL", "root@x.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiresIn)
	assert.True(t, cfg.Admin.Create)
	assert.Equal(t, "root@x.com", cfg.Admin.Email)
}

func TestValidate(t *testing.T) {
	base := Config{JWTSecret: "s", StorageDriver: StorageMemory, JWTExpiresIn: time.Hour, AuthRateLimit: 1, AuthRateBurst: 1}
	assert.NoError(t, base.Validate())

	noSecret := base
	noSecret.JWTSecret = ""
	assert.ErrorContains(t, noSecret.Validate(), "JWT_SECRET")

	mongoNoURI := base
	mongoNoURI.StorageDriver = StorageMongo
	assert.ErrorContains(t, mongoNoURI.Validate(), "MONGO_URI")

	unknown := base
	unknown.StorageDriver = "redis"
	assert.Error(t, unknown.Validate())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_EXPIRES_IN", "soon")

	_, err := Load()
	assert.Error(t, err)
}
