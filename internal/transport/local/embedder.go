// Package local provides an offline, CPU-only embedder based on feature hashing.
package local

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/metrics"
)

const (
	// DefaultDimensions matches the width of the small sentence-transformer models.
	DefaultDimensions = 384
	// ModelName labels the hashing scheme in metrics.
	ModelName = "hashing-unigram-bigram"

	providerName = "local"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}]+)*`)

// Embedder hashes lowercase word unigrams and adjacent bigrams into a fixed
// number of signed buckets and L2-normalises the result. It is deterministic
// and needs no model download or network.
type Embedder struct {
	dim       int
	stopwords map[string]struct{}
}

// New creates a hashing embedder. dim <= 0 selects DefaultDimensions.
func New(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	return &Embedder{dim: dim, stopwords: defaultStopwords()}
}

// Dimensions returns the vector width.
func (e *Embedder) Dimensions() int { return e.dim }

// Embed implements domain.Embedder. Token counts report the number of hashed features.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		record(start, err)
		return domain.EmbeddingResult{}, err
	}
	vec, n := e.vector(text)
	record(start, nil)
	return domain.EmbeddingResult{Embedding: vec, PromptTokens: n, TotalTokens: n}, nil
}

// BatchEmbed implements domain.BatchEmbedder.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	start := time.Now()
	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			record(start, err)
			return domain.BatchEmbeddingResult{}, err
		}
		vec, n := e.vector(text)
		out.Embeddings[i] = vec
		out.PromptTokens += n
		out.TotalTokens += n
	}
	record(start, nil)
	return out, nil
}

func record(start time.Time, err error) {
	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, ModelName, "error").Inc()
		return
	}
	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, ModelName, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerName, ModelName).Observe(time.Since(start).Seconds())
}

// HealthCheck always succeeds: there is no remote dependency.
func (e *Embedder) HealthCheck(context.Context) error { return nil }

func (e *Embedder) vector(text string) ([]float32, int) {
	vec := make([]float32, e.dim)
	tokens := e.tokenize(text)

	// Tokenless input maps to a fixed unit vector so cosine scoring stays defined.
	if len(tokens) == 0 {
		vec[0] = 1
		return vec, 0
	}

	features := 0
	for i, tok := range tokens {
		e.add(vec, tok, 1)
		features++
		if i > 0 {
			e.add(vec, tokens[i-1]+" "+tok, 0.5)
			features++
		}
	}
	return domain.Normalize(vec), features
}

func (e *Embedder) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	idx := int(sum % uint64(e.dim))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}

func (e *Embedder) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := e.stopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by",
		"with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those",
		"from", "so", "such", "into", "about", "what", "which", "who", "whom", "how", "do", "does", "did",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
