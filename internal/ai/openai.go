// Package ai proxies prompt requests to the text-completion and
// generative-text backends and normalizes their responses to {text}.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/projectdesk/projectdesk-backend/internal/upstream"
)

// TextGenerator produces text for a prompt via an external API.
type TextGenerator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient calls the OpenAI completions API.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewOpenAIClient(baseURL, apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: upstream.DefaultTimeout},
	}
}

func (c *OpenAIClient) Configured() bool {
	return c.apiKey != ""
}

type openaiRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

// openaiResponse enumerates the fields we extract; everything else in the
// payload is tolerated and ignored.
type openaiResponse struct {
	Choices []struct {
		Text *string `json:"text"`
	} `json:"choices"`
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(openaiRequest{
		Model:     c.model,
		Prompt:    prompt,
		MaxTokens: 256,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &upstream.Error{Service: "openai", Status: resp.StatusCode, Body: string(raw)}
	}

	var parsed openaiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", upstream.ErrUnparseable
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Text == nil {
		return "", upstream.ErrUnparseable
	}
	return *parsed.Choices[0].Text, nil
}
