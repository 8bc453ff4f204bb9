package config

import (
	"log/slog"
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr           string
	BaseURL        string // public base URL used to build verification links
	Environment    string
	LogLevel       slog.Level
	JWTSigningKey  string
	TokenTTL       time.Duration
	DBPath         string // SQLite database path; empty selects in-memory stores
	TracingEnabled bool

	// Tutor holds AI tutor provider selection.
	Tutor Tutor

	// StreakSweepInterval controls how often the streak-break worker runs.
	StreakSweepInterval time.Duration
}

// Tutor captures AI tutor provider configuration.
type Tutor struct {
	Provider        string // "anthropic", "openai", "mock"
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIModel     string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                getEnv("LEARNFLOW_ADDR", ":8080"),
		BaseURL:             getEnv("LEARNFLOW_BASE_URL", "http://localhost:8080"),
		Environment:         getEnv("LEARNFLOW_ENV", "development"),
		LogLevel:            slog.LevelInfo,
		JWTSigningKey:       getEnv("LEARNFLOW_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:            15 * time.Minute,
		DBPath:              os.Getenv("LEARNFLOW_DB"),
		StreakSweepInterval: time.Hour,
		Tutor: Tutor{
			Provider:        getEnv("LEARNFLOW_TUTOR_PROVIDER", "mock"),
			AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
			AnthropicModel:  os.Getenv("LEARNFLOW_TUTOR_ANTHROPIC_MODEL"),
			OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:     os.Getenv("LEARNFLOW_TUTOR_OPENAI_MODEL"),
		},
	}

	if os.Getenv("LEARNFLOW_DEBUG") == "true" {
		cfg.LogLevel = slog.LevelDebug
	}
	if os.Getenv("LEARNFLOW_TRACING") == "true" {
		cfg.TracingEnabled = true
	}
	if v := os.Getenv("LEARNFLOW_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}
	if v := os.Getenv("LEARNFLOW_STREAK_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.StreakSweepInterval = d
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
