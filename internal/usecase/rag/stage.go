package rag

import "context"

// Stage is one step of the question-answering chain.
type Stage[In, Out any] interface {
	Run(ctx context.Context, in In) (Out, error)
}

// StageFunc adapts a plain function to Stage.
type StageFunc[In, Out any] func(ctx context.Context, in In) (Out, error)

// Run implements Stage.
func (f StageFunc[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	return f(ctx, in)
}

// Then feeds the output of first into second.
func Then[A, B, C any](first Stage[A, B], second Stage[B, C]) Stage[A, C] {
	return StageFunc[A, C](func(ctx context.Context, in A) (C, error) {
		mid, err := first.Run(ctx, in)
		if err != nil {
			var zero C
			return zero, err
		}
		return second.Run(ctx, mid)
	})
}

// PromptInput fills the two slots of the prompt template.
type PromptInput struct {
	Context  string
	Question string
}

// Join runs both branches on the same input, context first, and pairs their results.
func Join[In any](contextStage, questionStage Stage[In, string]) Stage[In, PromptInput] {
	return StageFunc[In, PromptInput](func(ctx context.Context, in In) (PromptInput, error) {
		c, err := contextStage.Run(ctx, in)
		if err != nil {
			return PromptInput{}, err
		}
		q, err := questionStage.Run(ctx, in)
		if err != nil {
			return PromptInput{}, err
		}
		return PromptInput{Context: c, Question: q}, nil
	})
}

// Passthrough returns its input unchanged.
func Passthrough[T any]() Stage[T, T] {
	return StageFunc[T, T](func(_ context.Context, in T) (T, error) { return in, nil })
}
