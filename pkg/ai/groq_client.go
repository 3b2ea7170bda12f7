package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type groq struct {
	endpoint string
	key      string
	model    string
	policy   Policy
	httpc    *http.Client
}

// NewGroq builds a chat-completions client against a Groq-style OpenAI
// compatible endpoint.
func NewGroq(endpoint, key, model string) Client {
	return &groq{
		endpoint: endpoint,
		key:      key,
		model:    model,
		policy:   DefaultPolicy(),
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Generate sends the prompt and returns the completion text. Rate
// limits (429) and transport errors are retried per the policy; any
// other non-200 status is surfaced immediately. All failure paths
// return a textual answer so the chat path never crashes on generator
// trouble.
func (c *groq) Generate(ctx context.Context, prompt string) string {
	if c.key == "" {
		return "Error: generator API key not set."
	}
	reqBody := map[string]any{
		"model":       c.model,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"temperature": 0.3,
		"max_tokens":  2000,
	}
	b, _ := json.Marshal(reqBody)
	url := strings.TrimRight(c.endpoint, "/") + "/v1/chat/completions"

	for attempt := 0; attempt < c.policy.MaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
		if err != nil {
			return "API Error: " + err.Error()
		}
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpc.Do(req)
		if err != nil {
			if attempt == c.policy.MaxAttempts-1 {
				return "API Error: " + err.Error()
			}
			if !sleep(ctx, c.policy.Backoff(attempt)) {
				return "API Error: " + ctx.Err().Error()
			}
			continue
		}

		switch resp.StatusCode {
		case http.StatusOK:
			var out struct {
				Choices []struct {
					Message struct {
						Content string `json:"content"`
					} `json:"message"`
				} `json:"choices"`
			}
			err := json.NewDecoder(resp.Body).Decode(&out)
			resp.Body.Close()
			if err != nil || len(out.Choices) == 0 {
				return "API Error: malformed completion response."
			}
			return strings.TrimSpace(out.Choices[0].Message.Content)
		case http.StatusTooManyRequests:
			resp.Body.Close()
			if !sleep(ctx, c.policy.Backoff(attempt)) {
				return "API Error: " + ctx.Err().Error()
			}
		default:
			code := resp.StatusCode
			resp.Body.Close()
			return fmt.Sprintf("API Error: status %d from generator.", code)
		}
	}
	return "API Error: failed after multiple retries."
}
