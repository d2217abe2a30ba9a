package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/arwear?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "minioadmin")
	t.Setenv("MINIO_SECRET_KEY", "minioadmin")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "animations", cfg.MinioBucket)
	assert.Equal(t, "animation-uploads", cfg.KafkaTopic)
	assert.Equal(t, 512, cfg.ThumbnailMaxSize)
	assert.False(t, cfg.MinioUseSSL)
	assert.Empty(t, cfg.KafkaBroker)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("KAFKA_BROKER", "localhost:9092")
	t.Setenv("THUMBNAIL_MAX_SIZE", "128")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, "localhost:9092", cfg.KafkaBroker)
	assert.Equal(t, 128, cfg.ThumbnailMaxSize)
}

func TestValidateMissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"missing database url", "DATABASE_URL"},
		{"missing jwt secret", "JWT_SECRET"},
		{"missing minio endpoint", "MINIO_ENDPOINT"},
		{"missing minio access key", "MINIO_ACCESS_KEY"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.unset, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
