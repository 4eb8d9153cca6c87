package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentParse signals unparseable document bytes.
	ErrDocumentParse = errors.New("document parse error")
	// ErrNotPDF signals input that is not identified as a PDF.
	ErrNotPDF = fmt.Errorf("%w: input is not a pdf", ErrDocumentParse)
	// ErrIndexBuild signals a failed vector index construction.
	ErrIndexBuild = errors.New("index build error")
	// ErrGeneration signals an answer generator failure.
	ErrGeneration = errors.New("generation error")
	// ErrNotReady signals a question asked before any successful upload.
	ErrNotReady = errors.New("no document uploaded")
	// ErrConfiguration signals missing or invalid startup configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidQuestion signals an empty question.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)

// DimensionMismatchError wraps ErrVectorDimMismatch with the offending sizes.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: want %d, got %d", ErrVectorDimMismatch.Error(), e.Want, e.Got)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrVectorDimMismatch }
