package embedding

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
)

// NormalizedEmbedder L2-normalises every vector and pins the dimensionality
// for the lifetime of the process. The first vector fixes the width unless
// one was configured; later vectors of another width fail with
// domain.ErrVectorDimMismatch.
type NormalizedEmbedder struct {
	inner domain.Embedder
	dim   atomic.Int64
}

// NewNormalizedEmbedder wraps inner. dim <= 0 lets the first vector decide.
func NewNormalizedEmbedder(inner domain.Embedder, dim int) *NormalizedEmbedder {
	n := &NormalizedEmbedder{inner: inner}
	if dim > 0 {
		n.dim.Store(int64(dim))
	}
	return n
}

// Dimensions returns the pinned width, or 0 before the first vector.
func (n *NormalizedEmbedder) Dimensions() int { return int(n.dim.Load()) }

// Embed implements domain.Embedder.
func (n *NormalizedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := n.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err //nolint:wrapcheck // transparent decorator
	}
	vec, err := n.fix(res.Embedding)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	res.Embedding = vec
	return res, nil
}

// BatchEmbed implements domain.BatchEmbedder.
func (n *NormalizedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	res, err := domain.EmbedAll(ctx, n.inner, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err //nolint:wrapcheck // transparent decorator
	}
	for i, vec := range res.Embeddings {
		fixed, err := n.fix(vec)
		if err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("vector %d: %w", i, err)
		}
		res.Embeddings[i] = fixed
	}
	return res, nil
}

// HealthCheck delegates to the inner embedder when it supports health checks.
func (n *NormalizedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := n.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}

func (n *NormalizedEmbedder) fix(vec []float32) ([]float32, error) {
	if len(vec) == 0 {
		return nil, fmt.Errorf("empty vector: %w", domain.ErrEmbeddingProviderError)
	}
	got := int64(len(vec))
	if !n.dim.CompareAndSwap(0, got) {
		if want := n.dim.Load(); want != got {
			return nil, &domain.DimensionMismatchError{Want: int(want), Got: int(got)}
		}
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	if isZero(out) {
		return nil, fmt.Errorf("zero vector: %w", domain.ErrEmbeddingProviderError)
	}
	return domain.Normalize(out), nil
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
