package langchain

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/metrics"
)

// Embedder adapts a langchaingo embeddings.Embedder to domain.Embedder.
// langchaingo reports no token usage, so results carry zero tokens.
type Embedder struct {
	inner    embeddings.Embedder
	provider string
	model    string
}

// NewEmbedder wraps an embeddings client (any model that can create embeddings).
func NewEmbedder(client embeddings.EmbedderClient, provider, model string, batchSize int) (*Embedder, error) {
	opts := []embeddings.Option{embeddings.WithStripNewLines(false)}
	if batchSize > 0 {
		opts = append(opts, embeddings.WithBatchSize(batchSize))
	}
	inner, err := embeddings.NewEmbedder(client, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: embedder: %w", domain.ErrConfiguration, err)
	}
	return &Embedder{inner: inner, provider: provider, model: model}, nil
}

// NewOllamaEmbedder creates an embedder backed by a local Ollama server.
func NewOllamaEmbedder(baseURL, model string, batchSize int) (*Embedder, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, ollama.WithServerURL(baseURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama client: %w", domain.ErrConfiguration, err)
	}
	return NewEmbedder(llm, "ollama", model, batchSize)
}

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()
	vec, err := e.inner.EmbedQuery(ctx, text)
	if err != nil {
		e.fail("api_error")
		return domain.EmbeddingResult{}, fmt.Errorf("%s embed: %v: %w", e.provider, err, domain.ErrEmbeddingProviderError)
	}
	if len(vec) == 0 {
		e.fail("empty_response")
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}
	e.succeed(start)
	return domain.EmbeddingResult{Embedding: vec}, nil
}

// BatchEmbed implements domain.BatchEmbedder.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}
	start := time.Now()
	vecs, err := e.inner.EmbedDocuments(ctx, texts)
	if err != nil {
		e.fail("api_error")
		return domain.BatchEmbeddingResult{}, fmt.Errorf("%s batch embed: %v: %w", e.provider, err, domain.ErrEmbeddingProviderError)
	}
	if len(vecs) != len(texts) {
		e.fail("count_mismatch")
		return domain.BatchEmbeddingResult{}, fmt.Errorf("embedding response has %d vectors for %d inputs: %w",
			len(vecs), len(texts), domain.ErrEmbeddingProviderError)
	}
	e.succeed(start)
	return domain.BatchEmbeddingResult{Embeddings: vecs}, nil
}

func (e *Embedder) fail(kind string) {
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
	metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, e.model, kind).Inc()
}

func (e *Embedder) succeed(start time.Time) {
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, e.model).Observe(time.Since(start).Seconds())
}
