package sdk

import (
	"errors"
	"fmt"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotPDF                 = domain.ErrNotPDF
	ErrDocumentParse          = domain.ErrDocumentParse
	ErrIndexBuild             = domain.ErrIndexBuild
	ErrGeneration             = domain.ErrGeneration
	ErrNotReady               = domain.ErrNotReady
	ErrInvalidQuestion        = domain.ErrInvalidQuestion
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch

	// ErrPayloadTooLarge signals an upload above the server limit.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrBadRequest signals a request the server could not decode.
	ErrBadRequest = errors.New("bad request")
)

// codeSentinels maps server error codes to sentinels.
var codeSentinels = map[string]error{
	"not_pdf":                  ErrNotPDF,
	"document_parse_failed":    ErrDocumentParse,
	"index_build_failed":       ErrIndexBuild,
	"generation_failed":        ErrGeneration,
	"not_ready":                ErrNotReady,
	"validation_failed":        ErrInvalidQuestion,
	"embedding_provider_error": ErrEmbeddingProviderError,
	"vector_dim_mismatch":      ErrVectorDimMismatch,
	"payload_too_large":        ErrPayloadTooLarge,
	"bad_request":              ErrBadRequest,
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("docqa: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap returns the sentinel for the server error code, if any.
func (e *APIError) Unwrap() error {
	return codeSentinels[e.Code]
}
