package ai

import "context"

type mockClient struct{}

// NewMock returns a client used when no API key is configured.
func NewMock() Client {
	return &mockClient{}
}

func (*mockClient) Generate(ctx context.Context, prompt string) string {
	return "(mock) Generator is not configured. Set GROQ_API_KEY to enable answers."
}
