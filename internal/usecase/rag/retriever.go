package rag

import (
	"context"
	"fmt"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 8

// Retriever binds a fixed k and similarity search to a Searcher.
type Retriever struct {
	searcher Searcher
	k        int
}

// NewRetriever creates a Retriever. k <= 0 selects DefaultTopK.
func NewRetriever(searcher Searcher, k int) *Retriever {
	if k <= 0 {
		k = DefaultTopK
	}
	return &Retriever{searcher: searcher, k: k}
}

// K returns the number of chunks requested per question.
func (r *Retriever) K() int { return r.k }

// Run implements Stage[string, []domain.Chunk].
func (r *Retriever) Run(ctx context.Context, question string) ([]domain.Chunk, error) {
	hits, err := r.searcher.Query(ctx, question, r.k)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	chunks := make([]domain.Chunk, len(hits))
	for i, h := range hits {
		chunks[i] = h.Chunk
	}
	return chunks, nil
}
