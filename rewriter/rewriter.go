// Package rewriter rephrases product copy through an LLM chat call. The model
// reply format is a convention, not a schema, so every failure mode degrades
// to the original text instead of failing the pipeline.
package rewriter

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/henomis/lingoose/llm/openai"
	"github.com/henomis/lingoose/thread"
)

const systemPrompt = "You are a helpful assistant for rephrasing product details. " +
	"Rephrase the title and description independently, keeping them concise and professional."

// generator is the slice of the lingoose LLM surface the rewriter needs.
type generator interface {
	Generate(ctx context.Context, t *thread.Thread) error
}

type Rewriter struct {
	llm    generator
	logger *log.Logger
}

func New(model string, logger *log.Logger) *Rewriter {
	llm := openai.New().WithModel(openai.Model(model))
	return NewWithGenerator(llm, logger)
}

// NewWithGenerator injects the LLM client directly. Used by tests.
func NewWithGenerator(llm generator, logger *log.Logger) *Rewriter {
	if logger == nil {
		logger = log.Default()
	}
	return &Rewriter{llm: llm, logger: logger.With("component", "rewriter")}
}

// Rephrase rewrites a title and description. On any transport or format
// failure the originals come back unchanged together with a non-nil error
// the caller may surface as a warning; the returned pair is always usable.
func (r *Rewriter) Rephrase(ctx context.Context, title, description string) (string, string, error) {
	t := thread.New().AddMessage(
		thread.NewSystemMessage().AddContent(
			thread.NewTextContent(systemPrompt),
		),
	).AddMessage(
		thread.NewUserMessage().AddContent(
			thread.NewTextContent(fmt.Sprintf(
				"Title: %s\nDescription: %s\nPlease rephrase them separately and return in this exact format:\nTitle: [Rephrased Title]\nDescription: [Rephrased Description]",
				title, description,
			)),
		),
	)

	if err := r.llm.Generate(ctx, t); err != nil {
		return title, description, fmt.Errorf("rephrase call failed: %v", err)
	}

	last := t.LastMessage()
	if last == nil || len(last.Contents) == 0 {
		return title, description, fmt.Errorf("rephrase call returned no content")
	}
	reply := last.Contents[0].AsString()

	result := parseReply(reply)
	if !result.ok {
		return title, description, fmt.Errorf("rephrase reply did not match expected format")
	}

	rephrasedTitle := result.title
	if rephrasedTitle == "" {
		r.logger.Debug("rephrased title empty, keeping original", "title", title)
		rephrasedTitle = title
	}
	rephrasedDescription := result.description
	if rephrasedDescription == "" {
		r.logger.Debug("rephrased description empty, keeping original")
		rephrasedDescription = description
	}

	return rephrasedTitle, rephrasedDescription, nil
}
