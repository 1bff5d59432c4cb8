package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("Expected stream=false")
		}
		if len(req.Images) != 1 || req.Images[0] != "aW1n" {
			t.Errorf("Expected one base64 image, got %v", req.Images)
		}
		if req.Format != "json" {
			t.Errorf("Expected json format, got %q", req.Format)
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:           "qwen2.5vl",
			Response:        " {\"ok\": true} ",
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       20,
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "qwen2.5vl", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{
		Prompt: "oku",
		Images: []Image{{Data: []byte("img")}},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.Text != `{"ok": true}` {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.TokensUsed != 30 {
		t.Errorf("Expected 30 tokens, got %d", resp.TokensUsed)
	}
}

func TestOllamaProvider_Generate_RequiresModel(t *testing.T) {
	provider, _ := NewOllamaProvider(Config{})
	_, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "oku"})
	if err == nil || !strings.Contains(err.Error(), "model must be specified") {
		t.Fatalf("Expected model error, got %v", err)
	}
}

func TestOllamaProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL, Model: "missing", Timeout: 5})
	_, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "oku"})
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Fatalf("Expected API error, got %v", err)
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"models": []}`))
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL})
	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}
