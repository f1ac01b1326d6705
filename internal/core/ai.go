package core

import "context"

type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMProvider generates free text from a prompt. The model name is passed
// per call so a request can select a different model than the default.
type LLMProvider interface {
	Generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
}
