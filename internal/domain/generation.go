package domain

import "context"

// Generator produces free text from a fully rendered prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
