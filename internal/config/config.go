package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the fixed policy table for the service, overridable through
// the environment.
type Config struct {
	Port string

	// Auth (optional; empty disables the auth middleware)
	APIKey string

	// Model extraction
	AnthropicAPIKey string
	AnthropicModel  string

	// Chunking
	ChunkSize     int
	ChunkOverlap  int
	MinChunkChars int

	// Batch orchestration
	BatchSize  int
	MaxRetries int
	RetryDelay time.Duration
	PaceDelay  time.Duration

	// Search
	SearchTopK int

	// Upload limits
	MaxUploadBytes int64

	// Overall ceiling on one summarization run, so a large document
	// cannot retry-storm for unbounded wall-clock time.
	IngestTimeout time.Duration

	// API request throttle
	RateLimitRPS float64
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("MANUALQA_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		ChunkSize:     envInt("CHUNK_SIZE", 2000),
		ChunkOverlap:  envInt("CHUNK_OVERLAP", 200),
		MinChunkChars: envInt("MIN_CHUNK_CHARS", 50),

		BatchSize:  envInt("BATCH_SIZE", 2),
		MaxRetries: envInt("MAX_RETRIES", 3),
		RetryDelay: envDuration("RETRY_DELAY", 2*time.Second),
		PaceDelay:  envDuration("PACE_DELAY", 5*time.Second),

		SearchTopK: envInt("SEARCH_TOP_K", 5),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		IngestTimeout: envDuration("INGEST_TIMEOUT", 10*time.Minute),

		RateLimitRPS: envFloat("RATE_LIMIT_RPS", 5),
	}

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 2000
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = 200
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 2
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.SearchTopK <= 0 {
		cfg.SearchTopK = 5
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}

	return cfg
}

func (c Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
