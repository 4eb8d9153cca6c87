package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
)

type sizedEmbedder struct {
	vectors map[string][]float32
}

func (s *sizedEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: s.vectors[text]}, nil
}

func TestNormalizedEmbedder_UnitLength(t *testing.T) {
	inner := &sizedEmbedder{vectors: map[string][]float32{"a": {3, 4}}}
	n := NewNormalizedEmbedder(inner, 0)

	res, err := n.Embed(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(float64(res.Embedding[0])-0.6) > 1e-6 || math.Abs(float64(res.Embedding[1])-0.8) > 1e-6 {
		t.Errorf("expected [0.6 0.8], got %v", res.Embedding)
	}
	if inner.vectors["a"][0] != 3 {
		t.Error("inner vector must not be mutated")
	}
	if n.Dimensions() != 2 {
		t.Errorf("expected pinned dimension 2, got %d", n.Dimensions())
	}
}

func TestNormalizedEmbedder_DimensionPinned(t *testing.T) {
	inner := &sizedEmbedder{vectors: map[string][]float32{
		"two":   {1, 1},
		"three": {1, 1, 1},
	}}
	n := NewNormalizedEmbedder(inner, 0)

	if _, err := n.Embed(context.Background(), "two"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := n.Embed(context.Background(), "three")
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
	var dimErr *domain.DimensionMismatchError
	if !errors.As(err, &dimErr) || dimErr.Want != 2 || dimErr.Got != 3 {
		t.Errorf("unexpected error detail %v", err)
	}
}

func TestNormalizedEmbedder_ConfiguredDimension(t *testing.T) {
	inner := &sizedEmbedder{vectors: map[string][]float32{"a": {1, 0}}}
	_, err := NewNormalizedEmbedder(inner, 384).Embed(context.Background(), "a")
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestNormalizedEmbedder_ZeroVector(t *testing.T) {
	inner := &sizedEmbedder{vectors: map[string][]float32{"z": {0, 0, 0}}}
	_, err := NewNormalizedEmbedder(inner, 0).Embed(context.Background(), "z")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestNormalizedEmbedder_BatchEmbed(t *testing.T) {
	inner := &sizedEmbedder{vectors: map[string][]float32{"a": {2, 0}, "b": {0, 5}}}
	n := NewNormalizedEmbedder(inner, 2)

	res, err := n.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Embeddings[0][0] != 1 || res.Embeddings[1][1] != 1 {
		t.Errorf("expected unit vectors, got %v", res.Embeddings)
	}
}
