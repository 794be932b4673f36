// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/author-brief/internal/httputil"
	"github.com/pdiddy/author-brief/pkg/types"
)

// openaiAPIURL is the chat-completions endpoint. Package-level var for
// test substitution.
var openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIBackend calls the OpenAI chat-completions API.
type OpenAIBackend struct {
	APIKey string
	Config types.LLMConfig
	Client *http.Client
}

// openaiRequest is the request body for the chat-completions API.
type openaiRequest struct {
	Model       string          `json:"model"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Messages    []openaiMessage `json:"messages"`
}

// openaiMessage is a single message in the conversation.
type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openaiResponse is the response body from the chat-completions API.
type openaiResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Complete sends the system and user messages and returns the completion text.
func (b *OpenAIBackend) Complete(ctx context.Context, system, user string) (string, error) {
	reqBody := openaiRequest{
		Model:       b.Config.Model,
		Temperature: b.Config.Temperature,
		MaxTokens:   b.Config.MaxTokens,
		Messages: []openaiMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, b.Config.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling chat-completions API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat-completions API returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return "", fmt.Errorf("decoding chat-completions response: %w", err)
	}

	if len(oResp.Choices) == 0 {
		return "", fmt.Errorf("chat-completions API returned no choices")
	}
	return oResp.Choices[0].Message.Content, nil
}
