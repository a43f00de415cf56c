package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	HTTPAddr          string
	DatabaseURL       string // sqlite file path or postgres:// URL
	UploadDir         string
	MaxUploadMB       int64
	LogLevel          string
	RedisURL          string
	SweepGraceMinutes int
	ServerURL         string // used by the checklist client
}

// LoadConfig reads configuration from environment variables (.env file)
func LoadConfig() (*Config, error) {
	// Load .env file. In production, env variables are often set directly.
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":5000"),
		DatabaseURL:       getEnv("DATABASE_URL", "responses.db"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadMB:       int64(getEnvInt("MAX_UPLOAD_MB", 32)),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SweepGraceMinutes: getEnvInt("SWEEP_GRACE_MINUTES", 60),
		ServerURL:         getEnv("CHECKLIST_SERVER", "http://localhost:5000"),
	}, nil
}

// MaxUploadBytes is the multipart memory limit handed to gin.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// Helper function to get env var or return default
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
