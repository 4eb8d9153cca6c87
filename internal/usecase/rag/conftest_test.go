package rag

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/chunker"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/parser"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/repository/index"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/transport/local"
)

// capitalGenerator answers capital questions from whatever context the prompt carries.
type capitalGenerator struct {
	mu      sync.Mutex
	prompts []string
	err     error
	reply   string
}

func (g *capitalGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	if g.err != nil {
		return "", g.err
	}
	if g.reply != "" {
		return g.reply, nil
	}
	ctxPart, question, _ := strings.Cut(prompt, "Question:")
	switch {
	case strings.Contains(question, "France") && strings.Contains(ctxPart, "Paris"):
		return "<think>looking at the context</think>\nParis", nil
	case strings.Contains(question, "Germany") && strings.Contains(ctxPart, "Berlin"):
		return "Berlin", nil
	default:
		return domain.InsufficientContextAnswer, nil
	}
}

func (g *capitalGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func (g *capitalGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

type stageEvent struct {
	stage string
	err   error
}

type recordingObserver struct {
	mu     sync.Mutex
	events []stageEvent
}

func (o *recordingObserver) Observe(_ context.Context, stage string, _ time.Time, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, stageEvent{stage: stage, err: err})
}

func (o *recordingObserver) stages() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.stage
	}
	return out
}

func chromemIndex(ctx context.Context, chunks []domain.Chunk, e domain.Embedder) (Searcher, error) {
	return index.Build(ctx, chunks, e)
}

func newTestBuilder(t *testing.T, gen domain.Generator, obs Observer) *Builder {
	t.Helper()
	ch, err := chunker.New(200, 20)
	require.NoError(t, err)

	b, err := NewBuilder(BuilderConfig{
		Loader:    parser.LoadPDF,
		Splitter:  ch,
		Index:     chromemIndex,
		Embedder:  local.New(0),
		Generator: gen,
		TopK:      2,
		Observer:  obs,
	})
	require.NoError(t, err)
	return b
}
