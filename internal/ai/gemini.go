package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/projectdesk/projectdesk-backend/internal/upstream"
)

// GeminiClient calls the generative-language generateContent API.
type GeminiClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewGeminiClient(baseURL, apiKey, model string) *GeminiClient {
	return &GeminiClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: upstream.DefaultTimeout},
	}
}

func (c *GeminiClient) Configured() bool {
	return c.apiKey != ""
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse enumerates the optional fields we extract. A response can
// carry candidates with no parts (safety-blocked generations) or a
// promptFeedback block instead of candidates.
type geminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	// The key rides in a header, never the URL: transport errors quote the
	// full request URL and would otherwise echo the credential to callers.
	reqURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

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
		return "", &upstream.Error{Service: "gemini", Status: resp.StatusCode, Body: string(raw)}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", upstream.ErrUnparseable
	}

	text, ok := extractGeminiText(parsed)
	if !ok {
		// A safety block yields no text; surface the reason in the log so it
		// can be told apart from a malformed payload.
		if reason := blockReason(parsed); reason != "" {
			log.Printf("[warn] operation=gemini_generate message=prompt blocked reason=%s", reason)
		}
		return "", upstream.ErrUnparseable
	}
	return text, nil
}

// extractGeminiText joins the text parts of the first candidate. It reports
// false when no candidate carries any text.
func extractGeminiText(resp geminiResponse) (string, bool) {
	if len(resp.Candidates) == 0 {
		return "", false
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return "", false
	}

	var parts []string
	for _, p := range content.Parts {
		if p.Text != nil {
			parts = append(parts, *p.Text)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ""), true
}

func blockReason(resp geminiResponse) string {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return resp.PromptFeedback.BlockReason
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == "SAFETY" {
		return "SAFETY"
	}
	return ""
}
