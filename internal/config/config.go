package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// BackendFS keeps artifacts on the local filesystem.
	BackendFS = "fs"
	// BackendS3 keeps artifacts in an S3-compatible bucket.
	BackendS3 = "s3"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	Production  bool
	FrontendURL string
	ServerURL   string
	SwaggerHost string

	DB        Database
	Auth      Auth
	Storage   Storage
	RedisAddr string
	RedisDB   int
	RedisPass string
}

// Database holds the connection parameters of the relational store.
type Database struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Auth holds token and password hashing settings.
type Auth struct {
	JWTSecret    string
	TokenTTL     time.Duration
	PasswordHash string
}

// Storage holds artifact storage settings.
type Storage struct {
	Backend       string
	SoftwareDir   string
	ImageDir      string
	ImageMaxBytes int64

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// requiredDBVars must be present at startup, otherwise the process refuses to start.
var requiredDBVars = []string{"DB_USER", "DB_HOST", "DB_DATABASE", "DB_PASSWORD"}

// Load builds Config from environment with sensible defaults.
// It fails when a required database parameter is missing.
func Load() (*Config, error) {
	var missing []string
	for _, key := range requiredDBVars {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	ttl, err := getEnvDuration("JWT_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:  getEnv("PORT", "3000"),
		Production:  strings.HasPrefix(strings.ToLower(os.Getenv("APP_ENV")), "prod"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		ServerURL:   strings.TrimRight(getEnv("SERVER_URL", "http://localhost:3000"), "/"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
		DB: Database{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_DATABASE"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: Auth{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			TokenTTL:     ttl,
			PasswordHash: strings.ToLower(getEnv("PASSWORD_HASH", "bcrypt")),
		},
		Storage: Storage{
			Backend:       strings.ToLower(getEnv("ARTIFACT_BACKEND", BackendFS)),
			SoftwareDir:   getEnv("SOFTWARE_DIR", "uploads/software"),
			ImageDir:      getEnv("UPLOAD_DIR", "uploads"),
			ImageMaxBytes: getEnvInt64("IMAGE_MAX_BYTES", 5*1024*1024),
			S3Bucket:      os.Getenv("S3_BUCKET"),
			S3Region:      getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:    os.Getenv("S3_ENDPOINT"),
			S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
			S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		},
		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
	}

	if cfg.Storage.Backend != BackendFS && cfg.Storage.Backend != BackendS3 {
		return nil, fmt.Errorf("unsupported ARTIFACT_BACKEND %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend == BackendS3 && cfg.Storage.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required when ARTIFACT_BACKEND=s3")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

// getEnvDuration accepts Go durations ("12h") and a bare "0" meaning no expiry.
func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	if v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
