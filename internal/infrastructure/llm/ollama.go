// Package llm provides text-generation backends behind ports.Generator.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ShopifySEO/internal/config"
	"ShopifySEO/internal/ports"
)

const defaultOllamaEndpoint = "http://localhost:11434"

// OllamaClient talks to a local Ollama runtime via its chat API.
type OllamaClient struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

var _ ports.Generator = (*OllamaClient)(nil)

// NewOllamaClient builds a client from configuration. Per-call deadlines come
// from the caller's context, so the HTTP client carries no timeout of its own.
func NewOllamaClient(cfg config.LLMConfig) *OllamaClient {
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = defaultOllamaEndpoint
	}
	return &OllamaClient{
		endpoint:   endpoint,
		model:      cfg.Model,
		httpClient: &http.Client{},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

// Generate sends one chat completion and returns the raw model text.
func (c *OllamaClient) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	if c.model == "" {
		return "", fmt.Errorf("ollama client misconfigured: empty model")
	}

	body, err := json.Marshal(ollamaChatRequest{
		Model: c.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal ollama payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ollama error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var chat ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}

	return chat.Message.Content, nil
}
