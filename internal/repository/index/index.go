// Package index is the in-memory vector index of one uploaded document,
// backed by a chromem-go collection.
package index

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/philippgille/chromem-go"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
)

const collectionName = "chunks"

// Index maps chunk ids to their text and vector and answers similarity queries.
// It is immutable after Build and safe for concurrent queries.
type Index struct {
	collection *chromem.Collection
	embedder   domain.Embedder
	chunks     map[string]domain.Chunk
	dim        int
}

type options struct {
	concurrency int
}

// Option configures Build.
type Option func(*options)

// WithConcurrency sets how many goroutines chromem uses when adding documents.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// Build embeds every chunk with embedder and stores it in a fresh collection.
// An empty chunk set or any embedding failure yields domain.ErrIndexBuild;
// the underlying cause stays in the error chain.
func Build(ctx context.Context, chunks []domain.Chunk, embedder domain.Embedder, opts ...Option) (*Index, error) {
	o := options{concurrency: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks to index", domain.ErrIndexBuild)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", domain.ErrIndexBuild)
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}

	res, err := domain.EmbedAll(ctx, embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embed chunks: %w", domain.ErrIndexBuild, err)
	}

	dim := len(res.Embeddings[0])
	docs := make([]chromem.Document, len(chunks))
	byID := make(map[string]domain.Chunk, len(chunks))
	for i, ch := range chunks {
		vec := res.Embeddings[i]
		if len(vec) == 0 || len(vec) != dim {
			return nil, fmt.Errorf("%w: chunk %s: %w", domain.ErrIndexBuild, ch.ID,
				&domain.DimensionMismatchError{Want: dim, Got: len(vec)})
		}
		if isZero(vec) {
			return nil, fmt.Errorf("%w: chunk %s has a zero vector: %w", domain.ErrIndexBuild, ch.ID,
				domain.ErrEmbeddingProviderError)
		}
		if _, dup := byID[ch.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate chunk id %s", domain.ErrIndexBuild, ch.ID)
		}
		byID[ch.ID] = ch
		docs[i] = chromem.Document{
			ID:        ch.ID,
			Content:   ch.Text,
			Embedding: vec,
			Metadata: map[string]string{
				"page":    fmt.Sprint(ch.Page),
				"ordinal": fmt.Sprint(ch.Ordinal),
			},
		}
	}

	db := chromem.NewDB()
	collection, err := db.CreateCollection(collectionName, nil, embeddingFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("%w: create collection: %w", domain.ErrIndexBuild, err)
	}
	if err := collection.AddDocuments(ctx, docs, o.concurrency); err != nil {
		return nil, fmt.Errorf("%w: add documents: %w", domain.ErrIndexBuild, err)
	}

	return &Index{
		collection: collection,
		embedder:   embedder,
		chunks:     byID,
		dim:        dim,
	}, nil
}

// Len returns the number of stored chunks.
func (ix *Index) Len() int { return ix.collection.Count() }

// Dimensions returns the vector width of the stored chunks.
func (ix *Index) Dimensions() int { return ix.dim }

// Query embeds text with the build-time embedder and returns the k most
// similar chunks by cosine similarity, highest first. Equal scores keep the
// original chunk order. k <= 0 or k > Len() returns every stored chunk.
func (ix *Index) Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	n := ix.Len()
	if k <= 0 || k > n {
		k = n
	}

	res, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(res.Embedding) != ix.dim {
		return nil, &domain.DimensionMismatchError{Want: ix.dim, Got: len(res.Embedding)}
	}

	if isZero(res.Embedding) {
		return nil, fmt.Errorf("query has a zero vector: %w", domain.ErrEmbeddingProviderError)
	}

	// Score everything so ties are broken over the full set, not chromem's cut.
	results, err := ix.collection.QueryEmbedding(ctx, res.Embedding, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	hits := make([]domain.ScoredChunk, 0, len(results))
	for _, r := range results {
		ch, ok := ix.chunks[r.ID]
		if !ok {
			continue
		}
		hits = append(hits, domain.ScoredChunk{Chunk: ch, Score: float64(r.Similarity)})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Chunk.Ordinal < hits[j].Chunk.Ordinal
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func embeddingFunc(e domain.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		res, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err //nolint:wrapcheck // surfaced through chromem
		}
		return res.Embedding, nil
	}
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
