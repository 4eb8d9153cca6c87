// Package chunker splits page text into overlapping retrieval windows.
package chunker

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
)

// Defaults used when the configuration leaves the rag section empty.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 150
)

// Separators are tried in order: paragraph, line, sentence, word.
// There is no character-level fallback, so a token longer than the chunk
// size is emitted whole instead of being cut.
var Separators = []string{"\n\n", "\n", ". ", " "}

// Chunker wraps a recursive character splitter. Lengths are counted in runes.
type Chunker struct {
	size     int
	overlap  int
	splitter textsplitter.RecursiveCharacter
}

// New creates a Chunker. overlap must be non-negative and smaller than size.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrConfiguration, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap must be in [0, %d), got %d", domain.ErrConfiguration, size, overlap)
	}

	return &Chunker{
		size:    size,
		overlap: overlap,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
			textsplitter.WithSeparators(Separators),
		),
	}, nil
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured chunk overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split chunks every document in order. Ordinals run contiguously across pages.
func (c *Chunker) Split(docs []domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for _, doc := range docs {
		parts, err := c.splitter.SplitText(doc.Text)
		if err != nil {
			return nil, fmt.Errorf("split page %d: %w", doc.Page, err)
		}
		for _, part := range parts {
			if strings.TrimSpace(part) == "" {
				continue
			}
			ordinal := len(chunks)
			chunks = append(chunks, domain.Chunk{
				ID:      domain.ChunkID(ordinal),
				Ordinal: ordinal,
				Page:    doc.Page,
				Text:    part,
			})
		}
	}
	return chunks, nil
}
