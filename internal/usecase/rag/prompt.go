package rag

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
)

// ContextSeparator joins retrieved chunk texts.
const ContextSeparator = "\n\n"

const answerTemplate = `You are a helpful assistant that answers questions based on provided documents.

Instructions:
- Answer based ONLY on the information provided in the context below
- Be accurate and specific when the context supports it
- If the context doesn't contain enough information to answer the question, say "` + domain.InsufficientContextAnswer + `"
- If the user is greeting you, respond in a friendly manner

Context:
{{.context}}

Question: {{.question}}

Answer:`

// Template is the fixed question-answering prompt.
type Template struct {
	tmpl prompts.PromptTemplate
}

// NewTemplate parses the prompt once so rendering errors surface at startup.
func NewTemplate() (*Template, error) {
	t := &Template{tmpl: prompts.NewPromptTemplate(answerTemplate, []string{"context", "question"})}
	if _, err := t.Render("", ""); err != nil {
		return nil, fmt.Errorf("%w: prompt template: %w", domain.ErrConfiguration, err)
	}
	return t, nil
}

// Render fills the template.
func (t *Template) Render(context, question string) (string, error) {
	out, err := t.tmpl.Format(map[string]any{
		"context":  context,
		"question": question,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return out, nil
}

// FormatContext joins chunk texts in retrieval order, separated by a blank line.
func FormatContext(chunks []domain.Chunk) string {
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	return strings.Join(texts, ContextSeparator)
}
