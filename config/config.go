package config

import (
	"ERPAuth/utils/validator"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// PasswordPolicyEnv is read from PASSWORD_* variables.
type PasswordPolicyEnv struct {
	MinLength        int           `envconfig:"MIN_LENGTH" default:"8"`
	MaxLength        int           `envconfig:"MAX_LENGTH" default:"128"`
	MinSequentialRun int           `envconfig:"MIN_SEQUENTIAL_RUN" default:"4"`
	MinRepeatRun     int           `envconfig:"MIN_REPEAT_RUN" default:"3"`
	PolicyFile       string        `envconfig:"POLICY_FILE"`
	ResetTokenTTL    time.Duration `envconfig:"RESET_TOKEN_TTL" default:"24h"`
}

type Config struct {
	Port           string
	JWTSecret      string
	JWTExpiry      time.Duration
	RefreshExpiry  time.Duration
	DatabaseURL    string
	Redis          RedisConfig
	SMTP           SMTPConfig
	Password       PasswordPolicyEnv
	FrontendURL    string
	AllowedOrigins []string
	TrustedProxies []string
	Environment    string

	passwordErr error
}

func LoadConfig() *Config {
	jwtExpiry := parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour)
	refreshExpiry := parseDuration(getEnv("REFRESH_EXPIRY", "720h"), 30*24*time.Hour)

	redisDB := 0
	if dbStr := getEnv("REDIS_DB", "0"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	smtpPort := 587
	if portStr := getEnv("SMTP_PORT", "587"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			smtpPort = port
		}
	}

	var pw PasswordPolicyEnv
	pwErr := envconfig.Process("PASSWORD", &pw)
	if pwErr != nil {
		pwErr = fmt.Errorf("failed to load password policy settings: %w", pwErr)
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiry:     jwtExpiry,
		RefreshExpiry: refreshExpiry,
		DatabaseURL:   getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=erp_db port=5432 sslmode=disable"),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASS", ""),
			DB:       redisDB,
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     smtpPort,
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@example.com"),
		},
		Password:       pw,
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
		Environment:    getEnv("ENV", "development"),
		passwordErr:    pwErr,
	}
}

// PasswordPolicy builds the validated policy from the environment and, when
// PASSWORD_POLICY_FILE is set, the lists in that file. A malformed PASSWORD_*
// variable is reported here rather than replaced by its default.
func (c *Config) PasswordPolicy() (validator.PolicyConfig, error) {
	if c.passwordErr != nil {
		return validator.PolicyConfig{}, c.passwordErr
	}

	opts := []validator.PolicyOption{
		validator.WithLengthBounds(c.Password.MinLength, c.Password.MaxLength),
		validator.WithRunLengths(c.Password.MinSequentialRun, c.Password.MinRepeatRun),
	}

	if c.Password.PolicyFile != "" {
		file, err := LoadPolicyFile(c.Password.PolicyFile)
		if err != nil {
			return validator.PolicyConfig{}, err
		}
		opts = append(opts, file.Options()...)
	}

	policy, err := validator.NewPolicyConfig(opts...)
	if err != nil {
		return validator.PolicyConfig{}, fmt.Errorf("invalid password policy: %w", err)
	}
	return policy, nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// splitList parses a comma separated variable, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
