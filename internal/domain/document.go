package domain

import "fmt"

// InsufficientContextAnswer is the fixed phrase used when the document cannot answer a question.
const InsufficientContextAnswer = "I don't have enough information in the provided context to answer this question"

// Document is the extracted text of one PDF page.
type Document struct {
	Page     int // 1-based
	Text     string
	Metadata map[string]string
}

// Chunk is a bounded window of a document's text, the unit of retrieval.
type Chunk struct {
	ID      string
	Ordinal int // position across the whole document, used as retrieval tie-breaker
	Page    int
	Text    string
}

// ChunkID returns the identifier for the chunk at the given ordinal.
func ChunkID(ordinal int) string {
	return fmt.Sprintf("chunk-%05d", ordinal)
}

// ScoredChunk is a retrieval hit.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}
