// Package lexgen implements the client for the external language-generation
// backend. The backend speaks the chat-completions wire format: a system
// instruction, a user prompt, and a JSON answer inside
// choices[0].message.content.
package lexgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"
)

// Client calls the generation backend over HTTP. Every call is a single
// attempt: callers bill per successful stage, so silent retries here would
// change billing semantics.
type Client struct {
	httpClient *resty.Client
	model      string
}

// NewClient creates a generation client for the given endpoint and model.
// A zero timeout leaves the transport default in place.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &Client{
		httpClient: client,
		model:      model,
	}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float32         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
}

type choice struct {
	Index        int           `json:"index"`
	Message      choiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type choiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Complete sends one system+user prompt pair and returns the raw content of
// the first choice. Temperature 0 and forced-JSON response mode keep the
// output deterministic and parseable.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	requestBody := chatCompletionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	response, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&chatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody, ok := response.Result().(*chatCompletionResponse)
	if !ok || responseBody == nil || len(responseBody.Choices) == 0 {
		return "", fmt.Errorf("empty response body or choices: %s", response.String())
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response content: %s", response.String())
	}

	return content, nil
}

// ExtractJSON finds the first complete JSON object in a string. Some models
// wrap their answer in prose or code fences despite the forced-JSON mode.
func ExtractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
