// Package config provides configuration management for Converse.
// It loads settings from environment variables with the CONVERSE_ prefix
// and provides sensible defaults for all configuration options.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration settings for the Converse application.
type Config struct {
	Server    ServerConfig
	Engine    EngineConfig
	Storage   StorageConfig
	Assistant AssistantConfig
	Security  SecurityConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    // Server port (default: 7070)
	Host string // Server host (default: 127.0.0.1)
}

// EngineConfig contains the context engine tunables. The confidence
// thresholds and follow-up bounds are empirically tuned values; they are
// surfaced here for calibration, not re-derivation.
type EngineConfig struct {
	ContextTTL             time.Duration // Inactivity eviction window (default: 30m)
	MaxContexts            int           // Live context capacity (default: 50)
	SubjectAdoptConfidence float64       // Confidence to replace a subject (default: 0.6)
	SubjectFillConfidence  float64       // Confidence to fill an empty subject (default: 0.4)
	FollowUpThreshold      float64       // Raw-score decision boundary (default: 2.0)
	FollowUpMaxScore       float64       // Additive score cap (default: 5.0)
	LexiconPath            string        // Optional YAML lexicon overlay path
}

// StorageConfig contains snapshot persistence configuration.
type StorageConfig struct {
	Engine      string // Storage engine: sqlite, postgres, none (default: sqlite)
	DataPath    string // Path to data directory for sqlite (default: ./data)
	PostgresDSN string // PostgreSQL connection string
}

// AssistantConfig contains the outbound assistant API configuration.
type AssistantConfig struct {
	URL           string        // Assistant API endpoint (empty disables outbound calls)
	Timeout       time.Duration // Per-request timeout (default: 15s)
	TypoDebounce  time.Duration // Typo-correction debounce window (default: 300ms)
	CorrectionURL string        // Optional typo-correction endpoint
}

// SecurityConfig contains security and authentication settings.
type SecurityConfig struct {
	SecurityMode string  // Security mode: development, production (default: development)
	APIToken     string  // API authentication token
	RateLimit    float64 // Sustained requests per second (default: 20)
	RateBurst    int     // Burst size (default: 40)
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. All environment variables use the CONVERSE_ prefix.
func LoadConfig() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("CONVERSE_PORT", 7070),
			Host: getEnv("CONVERSE_HOST", "127.0.0.1"),
		},
		Engine: EngineConfig{
			ContextTTL:             getEnvDuration("CONVERSE_CONTEXT_TTL", 30*time.Minute),
			MaxContexts:            getEnvInt("CONVERSE_MAX_CONTEXTS", 50),
			SubjectAdoptConfidence: getEnvFloat("CONVERSE_SUBJECT_ADOPT_CONFIDENCE", 0.6),
			SubjectFillConfidence:  getEnvFloat("CONVERSE_SUBJECT_FILL_CONFIDENCE", 0.4),
			FollowUpThreshold:      getEnvFloat("CONVERSE_FOLLOWUP_THRESHOLD", 2.0),
			FollowUpMaxScore:       getEnvFloat("CONVERSE_FOLLOWUP_MAX_SCORE", 5.0),
			LexiconPath:            getEnv("CONVERSE_LEXICON_PATH", ""),
		},
		Storage: StorageConfig{
			Engine:      getEnv("CONVERSE_STORAGE_ENGINE", "sqlite"),
			DataPath:    getEnv("CONVERSE_DATA_PATH", "./data"),
			PostgresDSN: getEnv("CONVERSE_POSTGRES_DSN", ""),
		},
		Assistant: AssistantConfig{
			URL:           getEnv("CONVERSE_ASSISTANT_URL", ""),
			Timeout:       getEnvDuration("CONVERSE_ASSISTANT_TIMEOUT", 15*time.Second),
			TypoDebounce:  getEnvDuration("CONVERSE_TYPO_DEBOUNCE", 300*time.Millisecond),
			CorrectionURL: getEnv("CONVERSE_CORRECTION_URL", ""),
		},
		Security: SecurityConfig{
			SecurityMode: getEnv("CONVERSE_SECURITY_MODE", "development"),
			APIToken:     getEnv("CONVERSE_API_TOKEN", ""),
			RateLimit:    getEnvFloat("CONVERSE_RATE_LIMIT", 20),
			RateBurst:    getEnvInt("CONVERSE_RATE_BURST", 40),
		},
	}, nil
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. If the variable exists but cannot be parsed, the default is used.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable ("30m", "15s")
// or returns a default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
