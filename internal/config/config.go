package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the RadAssist server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AI       AIConfig
	Pipeline PipelineConfig
	Session  SessionConfig
	Minio    MinioConfig
}

type ServerConfig struct {
	Port               int
	Env                string
	MaxRequestBytes    int64
	RateLimitPerMinute int
	AllowedOrigins     []string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type AIConfig struct {
	Provider          string
	InferenceTimeout  time.Duration
	RequestsPerSecond float64
	Burst             int
	Ollama            OllamaConfig
	VLLM              VLLMConfig
	OpenAI            OpenAIConfig
	Anthropic         AnthropicConfig
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

type VLLMConfig struct {
	BaseURL string
	Model   string
}

type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	ImageModel string
}

type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// PipelineConfig bounds what a single analysis run may submit.
type PipelineConfig struct {
	MaxBatchItems int
}

// SessionConfig controls how long idle sessions are kept in memory.
type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// MinioConfig is optional; object-key media references are only accepted when Endpoint is set.
type MinioConfig struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Bucket         string
	Region         string
	UseSSL         bool
	MaxObjectBytes int64
}

// Enabled reports whether an object store was configured.
func (m MinioConfig) Enabled() bool { return m.Endpoint != "" }

var validProviders = map[string]bool{
	"openai":    true,
	"ollama":    true,
	"vllm":      true,
	"anthropic": true,
	"mock":      true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               envInt("RADASSIST_PORT", 8080),
			Env:                envString("RADASSIST_ENV", "development"),
			MaxRequestBytes:    int64(envInt("RADASSIST_MAX_REQUEST_BYTES", 64<<20)),
			RateLimitPerMinute: envInt("RADASSIST_RATE_LIMIT_RPM", 60),
			AllowedOrigins:     envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		AI: AIConfig{
			Provider:          os.Getenv("AI_PROVIDER"),
			InferenceTimeout:  envDurationSecs("AI_INFERENCE_TIMEOUT_SECS", 120*time.Second),
			RequestsPerSecond: envFloat("AI_REQUESTS_PER_SECOND", 5),
			Burst:             envInt("AI_BURST", 10),
			Ollama: OllamaConfig{
				BaseURL: envString("OLLAMA_BASE_URL", "http://localhost:11434"),
				Model:   envString("OLLAMA_MODEL", "llava"),
			},
			VLLM: VLLMConfig{
				BaseURL: envString("VLLM_BASE_URL", "http://localhost:8000"),
				Model:   envString("VLLM_MODEL", ""),
			},
			OpenAI: OpenAIConfig{
				APIKey:     os.Getenv("OPENAI_API_KEY"),
				BaseURL:    os.Getenv("OPENAI_BASE_URL"),
				Model:      envString("OPENAI_MODEL", "gpt-4o"),
				ImageModel: envString("OPENAI_IMAGE_MODEL", "gpt-image-1"),
			},
			Anthropic: AnthropicConfig{
				APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
				BaseURL: envString("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1/"),
				Model:   envString("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
			},
		},
		Pipeline: PipelineConfig{
			MaxBatchItems: envInt("MAX_BATCH_ITEMS", 30),
		},
		Session: SessionConfig{
			TTL:             envDuration("SESSION_TTL", 30*time.Minute),
			CleanupInterval: envDuration("SESSION_CLEANUP_INTERVAL", 5*time.Minute),
		},
		Minio: MinioConfig{
			Endpoint:       os.Getenv("MINIO_ENDPOINT"),
			AccessKey:      os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey:      os.Getenv("MINIO_SECRET_KEY"),
			Bucket:         os.Getenv("MINIO_BUCKET"),
			Region:         envString("MINIO_REGION", "us-east-1"),
			UseSSL:         envBool("MINIO_USE_SSL", false),
			MaxObjectBytes: int64(envInt("MINIO_MAX_OBJECT_BYTES", 32<<20)),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.AI.Provider == "" {
		return fmt.Errorf("AI_PROVIDER is required")
	}
	if !validProviders[c.AI.Provider] {
		return fmt.Errorf("AI_PROVIDER must be one of openai, ollama, vllm, anthropic, mock; got %q", c.AI.Provider)
	}
	if c.AI.Provider == "openai" && c.AI.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER is openai")
	}
	if c.AI.Provider == "anthropic" && c.AI.Anthropic.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when AI_PROVIDER is anthropic")
	}
	if c.AI.Provider == "vllm" && c.AI.VLLM.Model == "" {
		return fmt.Errorf("VLLM_MODEL is required when AI_PROVIDER is vllm")
	}
	if c.AI.RequestsPerSecond <= 0 {
		return fmt.Errorf("AI_REQUESTS_PER_SECOND must be positive, got %v", c.AI.RequestsPerSecond)
	}

	if c.Pipeline.MaxBatchItems < 1 {
		return fmt.Errorf("MAX_BATCH_ITEMS must be at least 1, got %d", c.Pipeline.MaxBatchItems)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Session.TTL)
	}

	if c.Minio.Enabled() {
		if c.Minio.Bucket == "" {
			return fmt.Errorf("MINIO_BUCKET is required when MINIO_ENDPOINT is set")
		}
		if strings.Contains(c.Minio.Endpoint, "://") {
			return fmt.Errorf("MINIO_ENDPOINT must be host[:port] without a scheme, got %q", c.Minio.Endpoint)
		}
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func envBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func envList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
