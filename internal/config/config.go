package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
)

// Config holds the docqa service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	RAG        RAGConfig        `yaml:"rag"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port               int      `yaml:"port"`
	ReadTimeoutSec     int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec    int      `yaml:"write_timeout_sec"`
	ShutdownSec        int      `yaml:"shutdown_timeout_sec"`
	MaxUploadMB        int      `yaml:"max_upload_mb"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// Embedding providers.
const (
	EmbeddingLocal  = "local"
	EmbeddingOpenAI = "openai"
	EmbeddingOllama = "ollama"
)

// Generation providers.
const (
	GenerationGoogleAI = "googleai"
	GenerationOpenAI   = "openai"
	GenerationOllama   = "ollama"
)

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string      `yaml:"provider"` // local (default), openai, ollama
	Model      string      `yaml:"model"`
	BaseURL    string      `yaml:"base_url"`
	APIKey     string      `yaml:"api_key"`
	Dimensions int         `yaml:"dimensions"`
	BatchSize  int         `yaml:"batch_size"`
	Cache      CacheConfig `yaml:"cache"`
}

// CacheConfig holds the Redis-compatible embedding cache settings.
// The cache is disabled when Addrs is empty.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	TTLHours         int      `yaml:"ttl_hours"` // 0 = no expiry
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether an embedding cache is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// GenerationConfig holds answer generator settings.
type GenerationConfig struct {
	Provider    string  `yaml:"provider"` // googleai (default), openai, ollama
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

// RAGConfig holds chunking and retrieval settings.
type RAGConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	// ChunkOverlap is nil when unset; an explicit 0 disables overlap.
	ChunkOverlap *int `yaml:"chunk_overlap"`
	TopK         int  `yaml:"top_k"`
}

// Overlap returns the configured chunk overlap, 0 when unset.
func (r RAGConfig) Overlap() int {
	if r.ChunkOverlap == nil {
		return 0
	}
	return *r.ChunkOverlap
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("%w: failed to read config %s: %w", domain.ErrConfiguration, configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML config data, expanding ${VAR} references, then applies
// defaults and validates the result.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: failed to parse config: %w", domain.ErrConfiguration, err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 60
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxUploadMB <= 0 {
		c.HTTP.MaxUploadMB = 32
	}
	if len(c.HTTP.CORSAllowedOrigins) == 0 {
		c.HTTP.CORSAllowedOrigins = []string{"*"}
	}

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = EmbeddingLocal
	}
	if c.Embedding.Model == "" {
		switch c.Embedding.Provider {
		case EmbeddingOpenAI:
			c.Embedding.Model = "text-embedding-3-small"
		case EmbeddingOllama:
			c.Embedding.Model = "nomic-embed-text"
		default:
			c.Embedding.Model = "hashing-unigram-bigram"
		}
	}
	if c.Embedding.Provider == EmbeddingLocal && c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 384
	}
	if c.Embedding.BatchSize <= 0 {
		c.Embedding.BatchSize = 256
	}
	if c.Embedding.Cache.ReadinessTimeout <= 0 {
		c.Embedding.Cache.ReadinessTimeout = 10
	}

	if c.Generation.Provider == "" {
		c.Generation.Provider = GenerationGoogleAI
	}
	if c.Generation.Model == "" {
		switch c.Generation.Provider {
		case GenerationOpenAI:
			c.Generation.Model = "gpt-4o-mini"
		case GenerationOllama:
			c.Generation.Model = "llama3.2"
		default:
			c.Generation.Model = "gemini-2.5-flash"
		}
	}
	if c.Generation.APIKey == "" && c.Generation.Provider == GenerationGoogleAI {
		c.Generation.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if c.Generation.TimeoutSec <= 0 {
		c.Generation.TimeoutSec = 60
	}

	if c.RAG.ChunkSize <= 0 {
		c.RAG.ChunkSize = 800
	}
	if c.RAG.ChunkOverlap == nil {
		overlap := 150
		c.RAG.ChunkOverlap = &overlap
	}
	if c.RAG.TopK <= 0 {
		c.RAG.TopK = 8
	}
}

// Validate checks the configuration for correctness.
// Every error wraps domain.ErrConfiguration.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return invalid("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Embedding.Provider {
	case EmbeddingLocal, EmbeddingOllama:
	case EmbeddingOpenAI:
		if c.Embedding.APIKey == "" && c.Embedding.BaseURL == "" {
			return invalid("embedding.api_key is required for provider %q", c.Embedding.Provider)
		}
	default:
		return invalid("embedding.provider must be one of local, openai, ollama, got %q", c.Embedding.Provider)
	}
	if c.Embedding.Dimensions < 0 {
		return invalid("embedding.dimensions must not be negative, got %d", c.Embedding.Dimensions)
	}
	if c.Embedding.Cache.TTLHours < 0 {
		return invalid("embedding.cache.ttl_hours must not be negative, got %d", c.Embedding.Cache.TTLHours)
	}

	switch c.Generation.Provider {
	case GenerationOllama:
	case GenerationGoogleAI, GenerationOpenAI:
		if c.Generation.APIKey == "" {
			return invalid("generation.api_key is required for provider %q", c.Generation.Provider)
		}
	default:
		return invalid("generation.provider must be one of googleai, openai, ollama, got %q", c.Generation.Provider)
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return invalid("generation.temperature must be between 0 and 2, got %v", c.Generation.Temperature)
	}

	if c.RAG.Overlap() < 0 {
		return invalid("rag.chunk_overlap must not be negative, got %d", c.RAG.Overlap())
	}
	if c.RAG.Overlap() >= c.RAG.ChunkSize {
		return invalid("rag.chunk_overlap (%d) must be smaller than rag.chunk_size (%d)",
			c.RAG.Overlap(), c.RAG.ChunkSize)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return invalid("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrConfiguration, fmt.Sprintf(format, args...))
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
