package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("EXTRACT_PDF_ENGINE", "tabula")
	t.Setenv("EXTRACT_MAX_UPLOAD_BYTES", "1024")
	t.Setenv("PRICING_DRAWER_PRICE", "275.5")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "tabula", cfg.Extraction.PDFEngine)
	assert.Equal(t, int64(1024), cfg.Extraction.MaxUploadBytes)
	assert.Equal(t, 275.5, cfg.Pricing.DrawerPrice)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("EXTRACT_PDF_ENGINE", "")
	t.Setenv("EXTRACT_MAX_UPLOAD_BYTES", "")
	t.Setenv("APP_TIMEZONE", "")

	cfg := Load()

	assert.Equal(t, "ledongthuc", cfg.Extraction.PDFEngine)
	assert.Equal(t, int64(20<<20), cfg.Extraction.MaxUploadBytes)
	assert.Equal(t, "UTC", cfg.TimeZone)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	t.Setenv(key, "value")

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	t.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	t.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	t.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	t.Setenv(key, "")
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	t.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	t.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	t.Setenv(key, "")
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvFloat(t *testing.T) {
	key := "TEST_FLOAT_VAR"

	t.Setenv(key, "1.25")
	assert.Equal(t, 1.25, getEnvFloat(key, 0))

	t.Setenv(key, "abc")
	assert.Equal(t, 2.0, getEnvFloat(key, 2))
}
