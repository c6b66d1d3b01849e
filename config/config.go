package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server    ServerConfig
	Poll      PollConfig
	Assistant AssistantConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all (e.g. http://localhost:5173,http://localhost:3000)
}

// PollConfig holds poll lifecycle settings.
type PollConfig struct {
	DurationSec int // answer window per poll
}

// AssistantConfig holds chat assistant reply settings.
type AssistantConfig struct {
	MinReplyDelay time.Duration
	MaxReplyDelay time.Duration
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "3001"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"),
		},
		Poll: PollConfig{
			DurationSec: getEnvInt("POLL_DURATION_SEC", 60),
		},
		Assistant: AssistantConfig{
			MinReplyDelay: time.Duration(getEnvInt("ASSISTANT_MIN_DELAY_MS", 1000)) * time.Millisecond,
			MaxReplyDelay: time.Duration(getEnvInt("ASSISTANT_MAX_DELAY_MS", 3000)) * time.Millisecond,
		},
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
