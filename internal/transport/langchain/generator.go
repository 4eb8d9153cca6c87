// Package langchain adapts langchaingo models (Google AI, Ollama) to the
// answer generation and embedding contracts.
package langchain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/metrics"
)

// Config holds the settings for a langchaingo-backed generator.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
	Logger      *zap.Logger
}

// Generator answers prompts through any llms.Model.
type Generator struct {
	llm         llms.Model
	provider    string
	model       string
	temperature float64
	timeout     time.Duration
	logger      *zap.Logger
}

// NewGenerator wraps an existing model. Used directly by tests and by the
// provider constructors below.
func NewGenerator(llm llms.Model, cfg Config) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		llm:         llm,
		provider:    cfg.Provider,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
}

// NewGoogleAI creates a Gemini generator. An API key is required.
func NewGoogleAI(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: googleai generator requires an api key", domain.ErrConfiguration)
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: googleai client: %w", domain.ErrConfiguration, err)
	}
	cfg.Provider = "googleai"
	return NewGenerator(llm, cfg), nil
}

// NewOllama creates a generator backed by a local Ollama server.
func NewOllama(cfg Config) (*Generator, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama client: %w", domain.ErrConfiguration, err)
	}
	cfg.Provider = "ollama"
	return NewGenerator(llm, cfg), nil
}

// Generate implements domain.Generator. Every failure wraps domain.ErrGeneration.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	answer, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(g.temperature))
	metrics.GenerationRequestDuration.WithLabelValues(g.provider, g.model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.model, "error").Inc()
		return "", fmt.Errorf("%s generate: %v: %w", g.provider, err, domain.ErrGeneration)
	}
	if strings.TrimSpace(answer) == "" {
		metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.model, "error").Inc()
		return "", fmt.Errorf("%s returned an empty answer: %w", g.provider, domain.ErrGeneration)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.model, "success").Inc()
	g.logger.Debug("answer generated",
		zap.String("provider", g.provider),
		zap.String("model", g.model),
		zap.Int("answer_len", len(answer)),
	)
	return answer, nil
}
