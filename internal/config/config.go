package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultGeminiModel       = "gemini-3-flash-preview"
	defaultPort              = "8080"
	defaultDBMaxOpenConns    = 10
	defaultImageFetchTimeout = 30 * time.Second
	defaultInferenceTimeout  = 60 * time.Second
)

// Load reads .env from the current directory and sets env vars.
// Safe to call multiple times; existing env vars are not overwritten.
func Load() error {
	return godotenv.Load()
}

// GeminiAPIKey returns the Google Gemini API key.
func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

// GeminiModel returns the model used for classification.
func GeminiModel() string {
	if m := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); m != "" {
		return m
	}
	return defaultGeminiModel
}

// GeminiBaseURL returns an optional override for the Gemini API endpoint.
func GeminiBaseURL() string {
	return strings.TrimSpace(os.Getenv("GEMINI_BASE_URL"))
}

// DatabaseURL returns the PostgreSQL connection string.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// DBMaxOpenConns returns the connection pool size. Defaults to 10.
func DBMaxOpenConns() int {
	return positiveInt("DB_MAX_OPEN_CONNS", defaultDBMaxOpenConns)
}

// Addr returns the listen address derived from PORT.
func Addr() string {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = defaultPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// ImageFetchTimeout bounds the download of the submitted image.
func ImageFetchTimeout() time.Duration {
	return positiveDuration("CIVIC_IMAGE_FETCH_TIMEOUT", defaultImageFetchTimeout)
}

// InferenceTimeout bounds a single inference attempt, not the whole retry sequence.
func InferenceTimeout() time.Duration {
	return positiveDuration("CIVIC_INFERENCE_TIMEOUT", defaultInferenceTimeout)
}

// LogLevel returns one of debug, info, warn, error. Defaults to info.
func LogLevel() string {
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv("CIVIC_LOG_LEVEL"))); v {
	case "debug", "info", "warn", "error":
		return v
	default:
		return "info"
	}
}

// CORSOrigin returns the allowed origin for browser clients.
func CORSOrigin() string {
	if v := strings.TrimSpace(os.Getenv("CIVIC_CORS_ORIGIN")); v != "" {
		return v
	}
	return "*"
}

func positiveInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func positiveDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
