package rag

import (
	"context"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
)

// Loader extracts per-page documents from raw PDF bytes.
type Loader func(data []byte, source string) ([]domain.Document, error)

// Splitter cuts documents into retrieval chunks.
type Splitter interface {
	Split(docs []domain.Document) ([]domain.Chunk, error)
}

// Searcher answers top-k similarity queries over an indexed chunk set.
type Searcher interface {
	Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error)
}

// IndexBuilder embeds chunks and returns a queryable index.
type IndexBuilder func(ctx context.Context, chunks []domain.Chunk, embedder domain.Embedder) (Searcher, error)

// PipelineBuilder constructs a ready pipeline from one uploaded PDF.
type PipelineBuilder interface {
	Build(ctx context.Context, pdf []byte, source string) (*Pipeline, error)
}
