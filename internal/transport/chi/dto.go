package chi

import "github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/usecase/rag"

// ErrorCode is the machine-readable error identifier returned to clients.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest             ErrorCode = "bad_request"
	ErrorCodeValidationFailed       ErrorCode = "validation_failed"
	ErrorCodeNotPDF                 ErrorCode = "not_pdf"
	ErrorCodeDocumentParseFailed    ErrorCode = "document_parse_failed"
	ErrorCodeNotReady               ErrorCode = "not_ready"
	ErrorCodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	ErrorCodeGenerationFailed       ErrorCode = "generation_failed"
	ErrorCodeIndexBuildFailed       ErrorCode = "index_build_failed"
	ErrorCodeVectorDimMismatch      ErrorCode = "vector_dim_mismatch"
	ErrorCodePayloadTooLarge        ErrorCode = "payload_too_large"
	ErrorCodeNotFound               ErrorCode = "not_found"
	ErrorCodeMethodNotAllowed       ErrorCode = "method_not_allowed"
	ErrorCodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	Source    string `json:"source"`
	Pages     int    `json:"pages"`
	Chunks    int    `json:"chunks"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is returned by POST /ask.
type AskResponse struct {
	Answer string `json:"answer"`
}

// SessionResponse is returned by GET /session. Info fields are inlined when ready.
type SessionResponse struct {
	Ready bool `json:"ready"`
	*rag.Info
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
