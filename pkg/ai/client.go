package ai

import "context"

// Client produces an answer for a fully composed prompt. Failures come
// back as descriptive answer text, never as an error the chat path has
// to handle.
type Client interface {
	Generate(ctx context.Context, prompt string) string
}
