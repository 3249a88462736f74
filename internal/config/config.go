package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	LLM     LLMConfig
	RAG     RAGConfig
	History HistoryConfig
	Vector  VectorConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LLMConfig struct {
	MistralKey       string
	MistralBaseURL   string
	AnthropicKey     string
	OllamaURL        string
	ChatProvider     string
	ChatModel        string
	Temperature      float64
	EmbedProvider    string
	EmbedModel       string
	FallbackProvider string
	MaxRetries       int
}

type RAGConfig struct {
	DocumentPath string
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	CacheTTLSec  int
}

type HistoryConfig struct {
	FilePath string
}

type VectorConfig struct {
	Backend     string // "sqlite" or "pgvector"
	IndexDir    string
	DatabaseURL string
	Dimension   int
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxRetries, err := getEnvInt("LLM_MAX_RETRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_RETRIES: %w", err)
	}

	temperature, err := getEnvFloat("LLM_TEMPERATURE", 0.1)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
	}

	chunkSize, err := getEnvInt("CHUNK_SIZE", 700)
	if err != nil {
		return nil, fmt.Errorf("invalid CHUNK_SIZE: %w", err)
	}

	chunkOverlap, err := getEnvInt("CHUNK_OVERLAP", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid CHUNK_OVERLAP: %w", err)
	}

	topK, err := getEnvInt("RETRIEVAL_TOP_K", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid RETRIEVAL_TOP_K: %w", err)
	}

	cacheTTL, err := getEnvInt("ANSWER_CACHE_TTL_SEC", 3600)
	if err != nil {
		return nil, fmt.Errorf("invalid ANSWER_CACHE_TTL_SEC: %w", err)
	}

	dimension, err := getEnvInt("EMBEDDING_DIM", 384)
	if err != nil {
		return nil, fmt.Errorf("invalid EMBEDDING_DIM: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		LLM: LLMConfig{
			MistralKey:       getEnv("MISTRAL_API_KEY", ""),
			MistralBaseURL:   getEnv("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			OllamaURL:        getEnv("OLLAMA_URL", "http://localhost:11434"),
			ChatProvider:     getEnv("LLM_CHAT_PROVIDER", "mistral"),
			ChatModel:        getEnv("LLM_CHAT_MODEL", "mistral-small-latest"),
			Temperature:      temperature,
			EmbedProvider:    getEnv("LLM_EMBED_PROVIDER", "ollama"),
			EmbedModel:       getEnv("LLM_EMBED_MODEL", "all-minilm"),
			FallbackProvider: getEnv("LLM_FALLBACK_PROVIDER", ""),
			MaxRetries:       maxRetries,
		},
		RAG: RAGConfig{
			DocumentPath: getEnv("HANDBOOK_PATH", "combined_handbook.pdf"),
			ChunkSize:    chunkSize,
			ChunkOverlap: chunkOverlap,
			TopK:         topK,
			CacheTTLSec:  cacheTTL,
		},
		History: HistoryConfig{
			FilePath: getEnv("HISTORY_FILE", "chat_history.json"),
		},
		Vector: VectorConfig{
			Backend:     getEnv("VECTOR_BACKEND", "sqlite"),
			IndexDir:    getEnv("INDEX_DIR", "./index_db"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
			Dimension:   dimension,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.Vector.Backend == "pgvector" && c.Vector.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}
