package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storedesk/internal/core/numerator"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", DriverMemory)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.False(t, cfg.Auth.Enabled())
	assert.Equal(t, numerator.DefaultOptions(), cfg.Database.NumberingOptions())
}

func TestNumberingOptions(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", DriverMemory)
	t.Setenv("DATABASE_NUMBERING_STRATEGY", NumberingCached)
	t.Setenv("DATABASE_NUMBERING_RANGE_SIZE", "200")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, &numerator.Options{Strategy: numerator.StrategyCached, RangeSize: 200}, cfg.Database.NumberingOptions())
}

func TestLoad_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "STORAGE_DRIVER=memory\nAPP_PORT=9090\nCORS_ORIGINS=http://a.test,http://b.test\nAUTH_JWT_SECRET=s3cret\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	// godotenv does not override, and t.Setenv restores on cleanup.
	for _, k := range []string{"STORAGE_DRIVER", "APP_PORT", "CORS_ORIGINS", "AUTH_JWT_SECRET"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.Auth.Enabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"postgres without url", Config{StorageDriver: DriverPostgres}, "DATABASE_URL"},
		{"unknown driver", Config{StorageDriver: "sqlite"}, "unknown STORAGE_DRIVER"},
		{"auth required without secret", Config{StorageDriver: DriverMemory, Auth: AuthConfig{Required: true}}, "AUTH_JWT_SECRET"},
		{"memory", Config{StorageDriver: DriverMemory}, ""},
		{"unknown numbering", Config{StorageDriver: DriverMemory, Database: DatabaseConfig{NumberingStrategy: "random"}}, "NUMBERING_STRATEGY"},
		{"cached without range", Config{StorageDriver: DriverMemory, Database: DatabaseConfig{NumberingStrategy: NumberingCached}}, "NUMBERING_RANGE_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
