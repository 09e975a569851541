// Package config loads configuration from environment variables and .env files.
package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the paper graph service.
type Config struct {
	// Server
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// FalkorDB
	FalkorDBURL string `env:"FALKORDB_URL" envDefault:"falkor://localhost:6379"`
	GraphName   string `env:"GRAPH_NAME" envDefault:"papers"`

	// Embedding (OpenAI-compatible endpoint)
	EmbeddingBaseURL    string `env:"EMBEDDING_BASE_URL" envDefault:"https://api.openai.com/v1"`
	EmbeddingAPIKey     string `env:"EMBEDDING_API_KEY"`
	EmbeddingModel      string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingDimensions int    `env:"EMBEDDING_DIMENSIONS" envDefault:"1536"`

	// LLM (OpenAI-compatible chat completions)
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	LLMAPIKey  string `env:"LLM_API_KEY"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"google/gemini-2.0-flash-001"`

	// Search
	SearchMinScore float64 `env:"SEARCH_MIN_SCORE" envDefault:"0.3"`

	// Ingestion / aggregation
	DataDir    string `env:"DATA_DIR" envDefault:"./papers"`
	EmbedBatch int    `env:"EMBED_BATCH" envDefault:"100"`
}

// Load loads configuration from a .env file (if present) and environment
// variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
