package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"PORT", "JWT_SECRET", "JWT_EXPIRY", "REFRESH_EXPIRY", "DATABASE_URL",
	"REDIS_ADDR", "REDIS_PASS", "REDIS_DB", "SMTP_HOST", "SMTP_PORT",
	"SMTP_FROM", "FRONTEND_URL", "ALLOWED_ORIGINS", "TRUSTED_PROXIES", "ENV",
	"PASSWORD_MIN_LENGTH", "PASSWORD_MAX_LENGTH", "PASSWORD_MIN_SEQUENTIAL_RUN",
	"PASSWORD_MIN_REPEAT_RUN", "PASSWORD_POLICY_FILE", "PASSWORD_RESET_TOKEN_TTL",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "Default values",
			envVars: map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "8080", cfg.Port)
				assert.Equal(t, "your-secret-key", cfg.JWTSecret)
				assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
				assert.Equal(t, 30*24*time.Hour, cfg.RefreshExpiry)
				assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
				assert.Equal(t, 0, cfg.Redis.DB)
				assert.Equal(t, 587, cfg.SMTP.Port)
				assert.Equal(t, "development", cfg.Environment)
				assert.Equal(t, 8, cfg.Password.MinLength)
				assert.Equal(t, 128, cfg.Password.MaxLength)
				assert.Equal(t, 4, cfg.Password.MinSequentialRun)
				assert.Equal(t, 3, cfg.Password.MinRepeatRun)
				assert.Equal(t, 24*time.Hour, cfg.Password.ResetTokenTTL)
				assert.Empty(t, cfg.Password.PolicyFile)
				assert.Empty(t, cfg.AllowedOrigins)
				assert.Empty(t, cfg.TrustedProxies)
			},
		},
		{
			name: "Custom values",
			envVars: map[string]string{
				"PORT":                "3000",
				"JWT_SECRET":          "custom-secret",
				"JWT_EXPIRY":          "12h",
				"REDIS_ADDR":          "redis:6379",
				"REDIS_DB":            "1",
				"SMTP_PORT":           "2525",
				"ENV":                 "production",
				"PASSWORD_MIN_LENGTH": "12",
				"PASSWORD_MAX_LENGTH": "64",
				"ALLOWED_ORIGINS":     "https://erp.example.com, https://admin.example.com,",
				"TRUSTED_PROXIES":     "10.0.0.0/8, 192.0.2.7",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "3000", cfg.Port)
				assert.Equal(t, "custom-secret", cfg.JWTSecret)
				assert.Equal(t, 12*time.Hour, cfg.JWTExpiry)
				assert.Equal(t, "redis:6379", cfg.Redis.Addr)
				assert.Equal(t, 1, cfg.Redis.DB)
				assert.Equal(t, 2525, cfg.SMTP.Port)
				assert.Equal(t, "production", cfg.Environment)
				assert.Equal(t, 12, cfg.Password.MinLength)
				assert.Equal(t, 64, cfg.Password.MaxLength)
				assert.Equal(t, []string{"https://erp.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
				assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.7"}, cfg.TrustedProxies)
			},
		},
		{
			name: "Invalid values fall back",
			envVars: map[string]string{
				"JWT_EXPIRY": "invalid",
				"REDIS_DB":   "invalid",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
				assert.Equal(t, 0, cfg.Redis.DB)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			tt.check(t, LoadConfig())
		})
	}
}

func TestPasswordPolicy(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)

		policy, err := LoadConfig().PasswordPolicy()
		require.NoError(t, err)
		assert.Equal(t, 8, policy.MinLength)
		assert.Contains(t, policy.CommonPasswords, "password")
	})

	t.Run("Invalid bounds", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PASSWORD_MIN_LENGTH", "20")
		t.Setenv("PASSWORD_MAX_LENGTH", "10")

		_, err := LoadConfig().PasswordPolicy()
		assert.Error(t, err)
	})

	t.Run("Malformed variable is not replaced by defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PASSWORD_MIN_LENGTH", "16")
		t.Setenv("PASSWORD_MIN_REPEAT_RUN", "2")
		t.Setenv("PASSWORD_RESET_TOKEN_TTL", "1day")

		_, err := LoadConfig().PasswordPolicy()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RESET_TOKEN_TTL")
	})

	t.Run("Malformed minimum length", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PASSWORD_MIN_LENGTH", "eight")

		_, err := LoadConfig().PasswordPolicy()
		assert.Error(t, err)
	})

	t.Run("Policy file overrides lists", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "policy.yaml")
		content := "common_passwords: [Hunter2, erp]\nkeyboard_patterns: []\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		t.Setenv("PASSWORD_POLICY_FILE", path)

		policy, err := LoadConfig().PasswordPolicy()
		require.NoError(t, err)
		assert.Equal(t, []string{"hunter2", "erp"}, policy.CommonPasswords)
		assert.Empty(t, policy.KeyboardPatterns)
		assert.NotEmpty(t, policy.SequentialAlphabets)
	})

	t.Run("Missing policy file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PASSWORD_POLICY_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

		_, err := LoadConfig().PasswordPolicy()
		assert.Error(t, err)
	})

	t.Run("Malformed policy file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte("common_passwords: {"), 0o600))
		t.Setenv("PASSWORD_POLICY_FILE", path)

		_, err := LoadConfig().PasswordPolicy()
		assert.Error(t, err)
	})
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "Existing environment variable",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "test-value",
			want:         "test-value",
		},
		{
			name:         "Empty environment variable",
			key:          "EMPTY_KEY",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)

			if got := getEnv(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}
