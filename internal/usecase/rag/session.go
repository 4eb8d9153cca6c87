package rag

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/logger"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/metrics"
)

// Session owns the single active pipeline of the process.
// Uploads replace it wholesale; a failed upload leaves it untouched.
type Session struct {
	builder PipelineBuilder
	current atomic.Pointer[Pipeline]
	logger  *zap.Logger
}

// NewSession creates an empty session.
func NewSession(builder PipelineBuilder, l *zap.Logger) *Session {
	if l == nil {
		l = zap.NewNop()
	}
	return &Session{builder: builder, logger: l}
}

// Upload builds a pipeline from pdf and installs it.
func (s *Session) Upload(ctx context.Context, pdf []byte, source string) (Info, error) {
	l := logger.FromContextOr(ctx, s.logger)

	p, err := s.builder.Build(ctx, pdf, source)
	if err != nil {
		metrics.SessionBuildsTotal.WithLabelValues("error").Inc()
		l.Warn("Document processing failed, keeping previous session",
			zap.String("source", source),
			zap.Int("bytes", len(pdf)),
			zap.Error(err),
		)
		return Info{}, err
	}

	s.current.Store(p)
	info := p.Info()
	metrics.SessionBuildsTotal.WithLabelValues("success").Inc()
	metrics.SessionChunks.Set(float64(info.Chunks))
	l.Info("Document processed",
		zap.String("session_id", info.SessionID),
		zap.String("source", source),
		zap.Int("pages", info.Pages),
		zap.Int("chunks", info.Chunks),
	)
	return info, nil
}

// Ask answers question with the pipeline installed at call time.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	p := s.current.Load()
	if p == nil {
		return "", domain.ErrNotReady
	}
	return p.Ask(ctx, question)
}

// Info returns the active pipeline description; ready is false before the first upload.
func (s *Session) Info() (info Info, ready bool) {
	p := s.current.Load()
	if p == nil {
		return Info{}, false
	}
	return p.Info(), true
}
