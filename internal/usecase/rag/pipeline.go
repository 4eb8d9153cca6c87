package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
)

// BuilderConfig wires the per-upload construction steps.
type BuilderConfig struct {
	Loader    Loader
	Splitter  Splitter
	Index     IndexBuilder
	Embedder  domain.Embedder
	Generator domain.Generator
	TopK      int
	Observer  Observer // optional
}

// Builder turns one uploaded PDF into a ready Pipeline.
type Builder struct {
	cfg  BuilderConfig
	tmpl *Template
}

// NewBuilder validates cfg and parses the prompt template.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	switch {
	case cfg.Embedder == nil:
		return nil, fmt.Errorf("%w: embedder is required", domain.ErrConfiguration)
	case cfg.Generator == nil:
		return nil, fmt.Errorf("%w: generator is required", domain.ErrConfiguration)
	case cfg.Loader == nil:
		return nil, fmt.Errorf("%w: loader is required", domain.ErrConfiguration)
	case cfg.Splitter == nil:
		return nil, fmt.Errorf("%w: splitter is required", domain.ErrConfiguration)
	case cfg.Index == nil:
		return nil, fmt.Errorf("%w: index builder is required", domain.ErrConfiguration)
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}

	tmpl, err := NewTemplate()
	if err != nil {
		return nil, err
	}
	return &Builder{cfg: cfg, tmpl: tmpl}, nil
}

// Build runs load, split and index, then composes the question chain.
func (b *Builder) Build(ctx context.Context, pdf []byte, source string) (*Pipeline, error) {
	start := time.Now()
	docs, err := b.cfg.Loader(pdf, source)
	b.observe(ctx, StageLoad, start, err)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", source, err)
	}

	start = time.Now()
	chunks, err := b.cfg.Splitter.Split(docs)
	b.observe(ctx, StageSplit, start, err)
	if err != nil {
		return nil, fmt.Errorf("split %q: %w", source, err)
	}

	info := Info{
		SessionID: uuid.NewString(),
		Source:    source,
		Pages:     len(docs),
		Chunks:    len(chunks),
	}

	if len(chunks) == 0 {
		info.BuiltAt = time.Now().UTC()
		return &Pipeline{info: info}, nil
	}

	start = time.Now()
	searcher, err := b.cfg.Index(ctx, chunks, b.cfg.Embedder)
	b.observe(ctx, StageIndex, start, err)
	if err != nil {
		if !errors.Is(err, domain.ErrIndexBuild) {
			err = fmt.Errorf("%w: %w", domain.ErrIndexBuild, err)
		}
		return nil, fmt.Errorf("index %q: %w", source, err)
	}

	chain := NewChain(NewRetriever(searcher, b.cfg.TopK), b.tmpl, b.cfg.Generator, b.cfg.Observer)
	info.BuiltAt = time.Now().UTC()
	return &Pipeline{chain: chain, info: info}, nil
}

func (b *Builder) observe(ctx context.Context, stage string, start time.Time, err error) {
	if b.cfg.Observer != nil {
		b.cfg.Observer.Observe(ctx, stage, start, err)
	}
}

// Info describes a built pipeline.
type Info struct {
	SessionID string    `json:"session_id"`
	Source    string    `json:"source"`
	Pages     int       `json:"pages"` // pages with extractable text
	Chunks    int       `json:"chunks"`
	BuiltAt   time.Time `json:"built_at"`
}

// Pipeline answers questions against one document. Immutable once built.
type Pipeline struct {
	chain Stage[string, string] // nil when the document had no text
	info  Info
}

// Info returns the pipeline description.
func (p *Pipeline) Info() Info { return p.info }

// Ask answers question from the document. A pipeline without chunks
// answers with domain.InsufficientContextAnswer and never calls the model.
func (p *Pipeline) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question must not be empty", domain.ErrInvalidQuestion)
	}
	if p.chain == nil {
		return domain.InsufficientContextAnswer, nil
	}
	return p.chain.Run(ctx, question)
}
