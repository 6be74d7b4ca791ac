package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Worker    WorkerConfig
	Snapshot  SnapshotConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	DB       int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	AllowedOrigins string
}

// AuthConfig holds settings for verifying identity provider tokens
type AuthConfig struct {
	JWTSecret string
	AdminRole string
}

// RateLimitConfig limits submission attempts per client IP
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// WorkerConfig sizes the snapshot refresh worker pool
type WorkerConfig struct {
	Count     int
	QueueSize int
}

// SnapshotConfig controls the periodic leaderboard snapshot job
type SnapshotConfig struct {
	Interval        time.Duration
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	AccessKeySecret string
	Prefix          string
}

// ExportEnabled reports whether snapshots should be uploaded to object storage
func (s SnapshotConfig) ExportEnabled() bool {
	return s.Bucket != ""
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "pullups"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Username: getEnv("REDIS_USERNAME", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("BACKEND_PORT", 8000),
			AllowedOrigins: normalizeOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			AdminRole: getEnv("ADMIN_ROLE", "admin"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("SUBMIT_RATE_PER_SECOND", 0.2),
			Burst:             getEnvAsInt("SUBMIT_RATE_BURST", 3),
		},
		Worker: WorkerConfig{
			Count:     getEnvAsInt("WORKER_COUNT", 4),
			QueueSize: getEnvAsInt("WORKER_QUEUE_SIZE", 100),
		},
		Snapshot: SnapshotConfig{
			Interval:        getEnvAsDuration("SNAPSHOT_INTERVAL", 5*time.Minute),
			Bucket:          getEnv("SNAPSHOT_BUCKET", ""),
			Endpoint:        getEnv("SNAPSHOT_ENDPOINT", ""),
			Region:          getEnv("SNAPSHOT_REGION", "auto"),
			AccessKeyID:     getEnv("SNAPSHOT_ACCESS_KEY_ID", ""),
			AccessKeySecret: getEnv("SNAPSHOT_ACCESS_KEY_SECRET", ""),
			Prefix:          getEnv("SNAPSHOT_PREFIX", "leaderboard"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	return cfg, nil
}

// GetDSN returns the PostgreSQL DSN
func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// normalizeOrigins trims spaces around comma-separated CORS origins
func normalizeOrigins(raw string) string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
