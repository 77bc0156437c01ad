package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ShopifySEO/internal/config"
	"ShopifySEO/internal/ports"
)

func TestOllamaGenerate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-oss:latest" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if req.Stream {
			t.Errorf("streaming must be disabled")
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		_ = json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "Blue Ceramic Coffee Mug"},
		})
	}))
	defer server.Close()

	client := NewOllamaClient(config.LLMConfig{Model: "gpt-oss:latest", Endpoint: server.URL})
	got, err := client.Generate(context.Background(), ports.GenerateRequest{
		System:    "rewrite titles",
		Prompt:    "Original Title: Mug",
		MaxLength: 53,
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if got != "Blue Ceramic Coffee Mug" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestOllamaGenerateServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewOllamaClient(config.LLMConfig{Model: "missing", Endpoint: server.URL})
	if _, err := client.Generate(context.Background(), ports.GenerateRequest{Prompt: "x"}); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestOpenAIGenerate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Soft Merino Wool Sweater"}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(config.LLMConfig{Model: "gpt-4o-mini", APIKey: "sk-test", Endpoint: server.URL})
	got, err := client.Generate(context.Background(), ports.GenerateRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if got != "Soft Merino Wool Sweater" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestOpenAIGenerateNoChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(config.LLMConfig{Model: "gpt-4o-mini", APIKey: "sk-test", Endpoint: server.URL})
	if _, err := client.Generate(context.Background(), ports.GenerateRequest{Prompt: "x"}); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestNewGenerator(t *testing.T) {
	t.Parallel()

	if _, err := NewGenerator(config.LLMConfig{Provider: "ollama", Model: "m"}); err != nil {
		t.Fatalf("ollama provider: %v", err)
	}
	if _, err := NewGenerator(config.LLMConfig{Provider: "openai", Model: "m", APIKey: "k"}); err != nil {
		t.Fatalf("openai provider: %v", err)
	}
	if _, err := NewGenerator(config.LLMConfig{Provider: "claude"}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
