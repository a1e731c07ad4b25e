package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	JWT     JWTConfig
	DB      DatabaseConfig
	Redis   RedisConfig
	Storage StorageConfig
}

// JWTConfig contains secrets and lifetimes for the token pair.
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig contains MinIO object storage parameters for product files.
type StorageConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PresignTTL time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// JWT
	cfg.JWT = JWTConfig{
		AccessSecret:  getEnv("JWT_SECRET", ""),
		RefreshSecret: getEnv("JWT_REFRESH_SECRET", ""),
	}

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis (refresh token store)
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// MinIO (product reference files)
	cfg.Storage = StorageConfig{
		Endpoint:  getEnv("MINIO_ENDPOINT", "minio:9000"),
		AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		SecretKey: getEnv("MINIO_SECRET_KEY", ""),
		Bucket:    getEnv("MINIO_BUCKET", "fabrika-files"),
		UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
	}

	var err error
	// Short access tokens in production, long ones for development tooling.
	accessDefault := "30d"
	if cfg.Env == "production" {
		accessDefault = "15m"
	}
	if cfg.JWT.AccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", accessDefault); err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TTL: %w", err)
	}
	if cfg.JWT.RefreshTTL, err = parseDurationEnv("JWT_REFRESH_TTL", "90d"); err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_TTL: %w", err)
	}
	if cfg.Storage.PresignTTL, err = parseDurationEnv("MINIO_PRESIGN_TTL", "1h"); err != nil {
		return nil, fmt.Errorf("invalid MINIO_PRESIGN_TTL: %w", err)
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
		return nil, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
// A trailing "d" suffix is accepted as days, which time.ParseDuration lacks.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	if n := len(raw); n > 1 && raw[n-1] == 'd' {
		days, err := strconv.Atoi(raw[:n-1])
		if err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
