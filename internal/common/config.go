package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Whisperer WhispererConfig
	Gemini    GeminiConfig
	Cache     CacheConfig
	History   HistoryConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// WhispererConfig holds the remote extraction service configuration
type WhispererConfig struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxAttempts int
}

// GeminiConfig holds the structuring model configuration
type GeminiConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// CacheConfig holds the optional result cache configuration.
// An empty RedisURL disables caching.
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// HistoryConfig holds the job-history store configuration.
// An empty Path disables history.
type HistoryConfig struct {
	Path string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// LoadConfig loads configuration from environment variables.
// It never fails; call Validate before serving traffic.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_MB", 25)) << 20,
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Whisperer: WhispererConfig{
			BaseURL:     getEnv("WHISPERER_BASE_URL", "https://llmwhisperer-api.us-central.unstract.com/api/v2"),
			APIKey:      getEnv("WHISPERER_API_KEY", ""),
			Timeout:     getEnvAsDuration("WHISPERER_TIMEOUT", 30*time.Second),
			MaxAttempts: getEnvAsInt("WHISPERER_MAX_ATTEMPTS", 60),
		},
		Gemini: GeminiConfig{
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
			Timeout: getEnvAsDuration("GEMINI_TIMEOUT", 45*time.Second),
		},
		Cache: CacheConfig{
			RedisURL: getEnv("REDIS_URL", ""),
			TTL:      getEnvAsDuration("CACHE_TTL", 24*time.Hour),
		},
		History: HistoryConfig{
			Path: getEnv("HISTORY_DB_PATH", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Validate validates the loaded configuration. Missing credentials are an
// error here, never a placeholder default.
func (c *Config) Validate() error {
	if c.Whisperer.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "WHISPERER_API_KEY is required", ErrInvalidInput)
	}
	if c.Gemini.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Whisperer.MaxAttempts <= 0 {
		return NewAppError("CONFIG_ERROR", "WHISPERER_MAX_ATTEMPTS must be positive", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
