package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "MONGODB_URI", "MONGODB_DB", "CORS_ORIGIN", "MAX_UPLOAD_MB"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	require.Equal(t, "novelhub", cfg.DBName)
	require.Equal(t, "http://localhost:5173", cfg.CORSOrigin)
	require.Equal(t, int64(50), cfg.MaxUploadMB)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("MONGODB_DB", "novelhub_staging")
	t.Setenv("MAX_UPLOAD_MB", "100")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "novelhub_staging", cfg.DBName)
	require.Equal(t, int64(100), cfg.MaxUploadMB)
}

func TestLoadIgnoresBadUploadLimit(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "not-a-number")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, int64(50), cfg.MaxUploadMB)

	t.Setenv("MAX_UPLOAD_MB", "-5")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, int64(50), cfg.MaxUploadMB)
}
