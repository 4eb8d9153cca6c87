package domain

import (
	"context"
	"errors"
	"math"
	"testing"
)

type stubEmbedder struct {
	result EmbeddingResult
	err    error
	calls  int
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) (EmbeddingResult, error) {
	s.calls++
	return s.result, s.err
}

type stubBatchEmbedder struct {
	stubEmbedder
	batchResult BatchEmbeddingResult
	batchErr    error
	batchTexts  []string
}

func (s *stubBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (BatchEmbeddingResult, error) {
	s.batchTexts = texts
	return s.batchResult, s.batchErr
}

func TestBatchFallback_Success(t *testing.T) {
	inner := &stubEmbedder{result: EmbeddingResult{
		Embedding:    []float32{0.1, 0.2},
		PromptTokens: 5,
		TotalTokens:  5,
	}}
	res, err := BatchFallback(context.Background(), inner, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(res.Embeddings))
	}
	if res.TotalTokens != 15 {
		t.Errorf("expected TotalTokens=15, got %d", res.TotalTokens)
	}
	if res.PromptTokens != 15 {
		t.Errorf("expected PromptTokens=15, got %d", res.PromptTokens)
	}
}

func TestBatchFallback_Error(t *testing.T) {
	innerErr := errors.New("fail")
	inner := &stubEmbedder{err: innerErr}
	_, err := BatchFallback(context.Background(), inner, []string{"a"})
	if !errors.Is(err, innerErr) {
		t.Errorf("expected wrapped inner error, got %v", err)
	}
}

func TestBatchFallback_Empty(t *testing.T) {
	res, err := BatchFallback(context.Background(), &stubEmbedder{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 0 {
		t.Errorf("expected 0 embeddings, got %d", len(res.Embeddings))
	}
}

func TestEmbedAll_UsesBatch(t *testing.T) {
	inner := &stubBatchEmbedder{batchResult: BatchEmbeddingResult{
		Embeddings:  [][]float32{{0.1}, {0.2}},
		TotalTokens: 20,
	}}
	res, err := EmbedAll(context.Background(), inner, []string{"hello", "world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 2 || res.TotalTokens != 20 {
		t.Errorf("unexpected result %+v", res)
	}
	if inner.calls != 0 {
		t.Errorf("single Embed should not be called, got %d calls", inner.calls)
	}
	if len(inner.batchTexts) != 2 {
		t.Errorf("expected 2 batch texts, got %v", inner.batchTexts)
	}
}

func TestEmbedAll_CountMismatch(t *testing.T) {
	inner := &stubBatchEmbedder{batchResult: BatchEmbeddingResult{Embeddings: [][]float32{{0.1}}}}
	_, err := EmbedAll(context.Background(), inner, []string{"a", "b"})
	if !errors.Is(err, ErrEmbeddingProviderError) {
		t.Errorf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestEmbedAll_FallbackToSingle(t *testing.T) {
	inner := &stubEmbedder{result: EmbeddingResult{Embedding: []float32{0.5}, TotalTokens: 3}}
	res, err := EmbedAll(context.Background(), inner, []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 Embed calls, got %d", inner.calls)
	}
	if res.TotalTokens != 6 {
		t.Errorf("expected TotalTokens=6, got %d", res.TotalTokens)
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("expected [0.6 0.8], got %v", v)
	}

	zero := Normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector must stay zero, got %v", zero)
	}
}

func TestDimensionMismatchError(t *testing.T) {
	err := error(&DimensionMismatchError{Want: 384, Got: 3})
	if !errors.Is(err, ErrVectorDimMismatch) {
		t.Error("expected errors.Is ErrVectorDimMismatch")
	}
	if err.Error() != "vector dimension mismatch: want 384, got 3" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestErrNotPDF_IsParseError(t *testing.T) {
	if !errors.Is(ErrNotPDF, ErrDocumentParse) {
		t.Error("ErrNotPDF must wrap ErrDocumentParse")
	}
}

func TestChunkID(t *testing.T) {
	if got := ChunkID(7); got != "chunk-00007" {
		t.Errorf("expected chunk-00007, got %q", got)
	}
}

func TestEmbeddingUsage_NilSafe(t *testing.T) {
	var u *EmbeddingUsage
	u.AddTokens(10)

	ctx, usage := NewContextWithUsage(context.Background())
	UsageFromContext(ctx).AddTokens(4)
	if usage.TotalTokens != 4 || !usage.Used {
		t.Errorf("unexpected usage %+v", usage)
	}
	if UsageFromContext(context.Background()) != nil {
		t.Error("expected nil usage on bare context")
	}
}
