package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/logger"
	healthuc "github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/usecase/health"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/usecase/rag"
)

const (
	// DefaultMaxUploadBytes bounds the multipart body of POST /upload.
	DefaultMaxUploadBytes = 32 << 20
	maxAskBytes           = 1 << 20
	uploadField           = "file"
	uploadMessage         = "PDF uploaded and processed"
)

// Session is the question-answering state the server exposes.
type Session interface {
	Upload(ctx context.Context, pdf []byte, source string) (rag.Info, error)
	Ask(ctx context.Context, question string) (string, error)
	Info() (rag.Info, bool)
}

// HealthService aggregates dependency checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers of the docqa API.
type Server struct {
	session        Session
	health         HealthService
	logger         *zap.Logger
	maxUploadBytes int64
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server. maxUploadBytes <= 0 selects DefaultMaxUploadBytes.
func NewServer(session Session, health HealthService, logger *zap.Logger, maxUploadBytes int64) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	s := &Server{
		session:        session,
		health:         health,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
	// Order matters: ErrNotPDF is also ErrDocumentParse, and index build
	// failures caused by the provider carry ErrEmbeddingProviderError.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuestion, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrNotPDF, http.StatusBadRequest, ErrorCodeNotPDF),
		sentinelHandler(domain.ErrDocumentParse, http.StatusBadRequest, ErrorCodeDocumentParseFailed),
		sentinelHandler(domain.ErrNotReady, http.StatusConflict, ErrorCodeNotReady),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrGeneration, http.StatusBadGateway, ErrorCodeGenerationFailed),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusInternalServerError, ErrorCodeVectorDimMismatch),
		sentinelHandler(domain.ErrIndexBuild, http.StatusInternalServerError, ErrorCodeIndexBuildFailed),
	}
	return s
}

// Upload handles POST /upload.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		switch {
		case isTooLarge(err):
			writeError(w, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge,
				"upload exceeds "+strconv.FormatInt(s.maxUploadBytes>>20, 10)+" MB")
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "multipart field \"file\" is required")
		default:
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid multipart body: "+err.Error())
		}
		return
	}
	defer func() { _ = file.Close() }()

	if !acceptedUpload(header.Filename, header.Header.Get("Content-Type")) {
		writeError(w, http.StatusBadRequest, ErrorCodeNotPDF, "Only PDF files are allowed")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Failed to read upload: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	info, err := s.session.Upload(ctx, data, filepath.Base(header.Filename))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, UploadResponse{
		Message:   uploadMessage,
		SessionID: info.SessionID,
		Source:    info.Source,
		Pages:     info.Pages,
		Chunks:    info.Chunks,
	})
}

// Ask handles POST /ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAskBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "Question is required")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	answer, err := s.session.Ask(ctx, req.Question)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, AskResponse{Answer: answer})
}

// Session handles GET /session.
func (s *Server) Session(w http.ResponseWriter, _ *http.Request) {
	info, ready := s.session.Info()
	resp := SessionResponse{Ready: ready}
	if ready {
		resp.Info = &info
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// acceptedUpload mirrors the browser-side check: a .pdf name and, when sent, a PDF or generic binary type.
func acceptedUpload(filename, contentType string) bool {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return false
	}
	if contentType == "" {
		return true
	}
	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "application/pdf", "application/octet-stream":
		return true
	default:
		return false
	}
}

// isTooLarge reports whether err came from http.MaxBytesReader, even when a
// multipart reader flattened it into a plain message.
func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuestion,
		domain.ErrNotPDF,
		domain.ErrDocumentParse,
		domain.ErrNotReady,
		domain.ErrEmbeddingProviderError,
		domain.ErrGeneration,
		domain.ErrVectorDimMismatch,
		domain.ErrIndexBuild,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	l := logger.FromContextOr(r.Context(), s.logger)
	l.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	l.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
