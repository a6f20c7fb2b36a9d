package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.ServerAddress)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, filepath.Join(dir, "client.db"), cfg.DataPath)
	assert.Equal(t, "student_details.csv", cfg.ExportPath)
	assert.Equal(t, "1/2/2006", cfg.ExportDateLayout)
	assert.False(t, cfg.ExportLegacy)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("SERVER_ADDRESS", "api.example.com:8080/")
	t.Setenv("SESSION_TTL", "90s")
	t.Setenv("EXPORT_LEGACY", "true")
	t.Setenv("APP_ENV", EnvProd)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://api.example.com:8080", cfg.ServerAddress)
	assert.Equal(t, 90*time.Second, cfg.SessionTTL)
	assert.True(t, cfg.ExportLegacy)
	assert.True(t, cfg.IsProd())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "ok",
			cfg:  Config{ServerAddress: "http://x", SessionTTL: time.Minute, RequestTimeout: time.Second},
		},
		{
			name:    "empty address",
			cfg:     Config{SessionTTL: time.Minute, RequestTimeout: time.Second},
			wantErr: true,
		},
		{
			name:    "zero ttl",
			cfg:     Config{ServerAddress: "http://x", RequestTimeout: time.Second},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
