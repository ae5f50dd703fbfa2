package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 3000, cfg.ServerPort)
				assert.Equal(t, StoreDriverRedis, cfg.StoreDriver)
				assert.True(t, cfg.StoreFallbackEnabled)
				assert.Equal(t, 5*time.Second, cfg.StoreConnectTimeout)
				assert.Equal(t, 10*time.Second, cfg.ServerShutdownTimeout)
				assert.Equal(t, 3*time.Second, cfg.StoreOperationTimeout)
				assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
				assert.Equal(t, "clip:secret:", cfg.RedisKeyPrefix)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, time.Second, cfg.MemorySweepInterval)
				assert.Equal(t, 60, cfg.SecretDefaultTTL)
				assert.Equal(t, 86400, cfg.SecretMaxTTL)
				assert.Equal(t, 65536, cfg.SecretMaxCiphertextBytes)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.True(t, cfg.RateLimitCreateEnabled)
				assert.False(t, cfg.CORSEnabled)
				assert.True(t, cfg.MetricsEnabled)
				assert.Equal(t, "clip", cfg.MetricsNamespace)
				assert.Equal(t, 3001, cfg.MetricsPort)
				assert.Equal(t, "http://localhost:3000", cfg.ClipServerURL)
				assert.Equal(t, 10*time.Second, cfg.ClipClientTimeout)
				assert.Equal(t, 3, cfg.ClipClientRetryMax)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom store configuration",
			envVars: map[string]string{
				"STORE_DRIVER":                    "mysql",
				"STORE_FALLBACK_ENABLED":          "false",
				"STORE_CONNECT_TIMEOUT_SECONDS":   "2",
				"STORE_OPERATION_TIMEOUT_SECONDS": "1",
				"DB_CONNECTION_STRING":            "user:password@tcp(localhost:3306)/clip?parseTime=true",
				"DB_MAX_OPEN_CONNECTIONS":         "50",
				"DB_CONN_MAX_LIFETIME":            "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, StoreDriverMySQL, cfg.StoreDriver)
				assert.False(t, cfg.StoreFallbackEnabled)
				assert.Equal(t, 2*time.Second, cfg.StoreConnectTimeout)
				assert.Equal(t, time.Second, cfg.StoreOperationTimeout)
				assert.Equal(t, "user:password@tcp(localhost:3306)/clip?parseTime=true", cfg.DBConnectionString)
				assert.Equal(t, 50, cfg.DBMaxOpenConnections)
				assert.Equal(t, 10*time.Minute, cfg.DBConnMaxLifetime)
			},
		},
		{
			name: "load custom secret limits",
			envVars: map[string]string{
				"SECRET_DEFAULT_TTL_SECONDS":  "300",
				"SECRET_MAX_TTL_SECONDS":      "3600",
				"SECRET_MAX_CIPHERTEXT_BYTES": "1024",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 300, cfg.SecretDefaultTTL)
				assert.Equal(t, 3600, cfg.SecretMaxTTL)
				assert.Equal(t, 1024, cfg.SecretMaxCiphertextBytes)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "debug", cfg.GetGinMode())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func TestConfig_GetGinMode(t *testing.T) {
	for _, level := range []string{"info", "warn", "error", "unknown"} {
		cfg := &Config{LogLevel: level}
		assert.Equal(t, "release", cfg.GetGinMode(), level)
	}
}

func TestConfig_IsDurableDriver(t *testing.T) {
	tests := []struct {
		driver   string
		expected bool
	}{
		{StoreDriverRedis, true},
		{StoreDriverPostgres, true},
		{StoreDriverMySQL, true},
		{StoreDriverMemory, false},
		{"sqlite", false},
	}

	for _, tt := range tests {
		cfg := &Config{StoreDriver: tt.driver}
		assert.Equal(t, tt.expected, cfg.IsDurableDriver(), tt.driver)
	}
}
