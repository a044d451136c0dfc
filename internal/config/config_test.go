package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres://localhost/blog", cfg.DatabaseURL)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, "fs", cfg.BlobBackend)
	assert.Nil(t, cfg.AdminEmails)
	assert.Equal(t, []string{"*"}, cfg.CorsAllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("BLOB_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "uploads")
	t.Setenv("ADMIN_EMAILS", "root@example.com, ops@example.com")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "s3", cfg.BlobBackend)
	assert.Equal(t, "uploads", cfg.S3Bucket)
	assert.Equal(t, []string{"root@example.com", "ops@example.com"}, cfg.AdminEmails)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsAllowedOrigins)
}
