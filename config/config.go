/*
Package config loads runtime configuration from the environment.

PURPOSE:
  A .env file is honored when present (developer machines); the installed
  application gets everything from real environment variables with the
  documented defaults. The runtime structure is fixed: database file names
  and cache TTL, performance knobs, and the security policy.

ENVIRONMENT:
  APP_ENV     production | development      (default: production)
  DEBUG       bool                          (default: false)
  LOG_LEVEL   debug | info | warn | error   (default: INFO)
*/
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	CredentialsFile string
	TokenFile       string
	AuditPath       string
	CacheTTL        time.Duration
}

type PerformanceConfig struct {
	BatchSize         int
	WorkerPoolSize    int
	LazyLoadThreshold int
}

type SecurityConfig struct {
	SessionTimeout    time.Duration
	MaxLoginAttempts  int
	PasswordMinLength int
}

type Config struct {
	AppEnv      string
	Debug       bool
	LogLevel    string
	Database    DatabaseConfig
	Performance PerformanceConfig
	Security    SecurityConfig
}

// New loads configuration. A missing .env file is not an error.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:   getEnv("APP_ENV", "production"),
		Debug:    getBool("DEBUG", false),
		LogLevel: strings.ToUpper(getEnv("LOG_LEVEL", "INFO")),
		Database: DatabaseConfig{
			CredentialsFile: getEnv("CREDENTIALS_FILE", "credentials.json"),
			TokenFile:       getEnv("TOKEN_FILE", "token.json"),
			AuditPath:       getEnv("AUDIT_DB", "logs/audit.db"),
			CacheTTL:        300 * time.Second,
		},
		Performance: PerformanceConfig{
			BatchSize:         100,
			WorkerPoolSize:    4,
			LazyLoadThreshold: 500,
		},
		Security: SecurityConfig{
			SessionTimeout:    30 * time.Minute,
			MaxLoginAttempts:  3,
			PasswordMinLength: 8,
		},
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
