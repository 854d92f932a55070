package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ACCESS_TOKEN_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "http://localhost:8000", cfg.PublicBaseURL)
	assert.Equal(t, 48*time.Hour, cfg.Auth.RegisterTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.LoginTTL)
	assert.Equal(t, StorageLocal, cfg.Storage.Driver)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "http://localhost:8000/assets/placeholder.jpeg", cfg.PlaceholderImageURL())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadWith_MissingSecret(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ACCESS_TOKEN_SECRET": "s3cret",
		"PORT":                "9000",
		"PUBLIC_BASE_URL":     "https://travel.example.com/",
		"LOGIN_TOKEN_TTL":     "1h",
		"REDIS_ADDR":          "localhost:6379",
		"STORAGE_DRIVER":      "s3",
		"S3_BUCKET":           "images",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.Auth.LoginTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "images", cfg.Storage.S3Bucket)
	assert.Equal(t, "https://travel.example.com/assets/placeholder.jpeg", cfg.PlaceholderImageURL())
}

func TestValidate_Storage(t *testing.T) {
	base := Config{Auth: AuthConfig{Secret: "x"}, Storage: StorageConfig{Driver: StorageS3}}
	assert.Error(t, base.Validate(), "s3 without bucket")

	base.Storage.Driver = "ftp"
	assert.Error(t, base.Validate(), "unknown driver")

	base.Storage.Driver = StorageLocal
	assert.NoError(t, base.Validate())
}
