package rag

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
)

// Stage names reported to the Observer.
const (
	StageRetrieve = "retrieve"
	StageFormat   = "format"
	StagePrompt   = "prompt"
	StageGenerate = "generate"
	StageParse    = "parse"
	StageChain    = "chain"
	StageLoad     = "load"
	StageSplit    = "split"
	StageIndex    = "index"
)

var thinkTag = regexp.MustCompile(`(?s)<think>.*?</think>`)

// ParseAnswer strips reasoning blocks some models emit and trims whitespace.
func ParseAnswer(raw string) string {
	return strings.TrimSpace(thinkTag.ReplaceAllString(raw, ""))
}

// NewChain composes
//
//	question -> {context: format(retrieve(question)), question} -> prompt -> generate -> parse
//
// into one Stage. Every step is reported to obs.
func NewChain(
	retriever Stage[string, []domain.Chunk],
	tmpl *Template,
	gen domain.Generator,
	obs Observer,
) Stage[string, string] {
	format := StageFunc[[]domain.Chunk, string](func(_ context.Context, chunks []domain.Chunk) (string, error) {
		return FormatContext(chunks), nil
	})

	render := StageFunc[PromptInput, string](func(_ context.Context, in PromptInput) (string, error) {
		return tmpl.Render(in.Context, in.Question)
	})

	generate := StageFunc[string, string](func(ctx context.Context, prompt string) (string, error) {
		out, err := gen.Generate(ctx, prompt)
		if err != nil {
			if errors.Is(err, domain.ErrGeneration) {
				return "", err
			}
			return "", fmt.Errorf("%w: %w", domain.ErrGeneration, err)
		}
		return out, nil
	})

	parse := StageFunc[string, string](func(_ context.Context, raw string) (string, error) {
		answer := ParseAnswer(raw)
		if answer == "" {
			return "", fmt.Errorf("%w: model returned no answer", domain.ErrGeneration)
		}
		return answer, nil
	})

	inputs := Join(
		Then(Observed(StageRetrieve, retriever, obs), Observed[[]domain.Chunk, string](StageFormat, format, obs)),
		Passthrough[string](),
	)

	chain := Then(Then(Then(
		inputs,
		Observed[PromptInput, string](StagePrompt, render, obs)),
		Observed[string, string](StageGenerate, generate, obs)),
		Observed[string, string](StageParse, parse, obs))

	return Observed(StageChain, chain, obs)
}
