package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const anthropicReply = `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "claude-sonnet-4-5",
  "content": [{"type": "text", "text": "{\"ok\": true}"}],
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 12, "output_tokens": 8}
}`

func TestAnthropicProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key test-key, got %s", r.Header.Get("x-api-key"))
		}

		var body struct {
			System   []map[string]any `json:"system"`
			Messages []struct {
				Content []struct {
					Type   string `json:"type"`
					Source struct {
						Type      string `json:"type"`
						MediaType string `json:"media_type"`
					} `json:"source"`
				} `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(body.System) != 1 {
			t.Errorf("Expected one system block, got %d", len(body.System))
		}
		if len(body.Messages) != 1 || len(body.Messages[0].Content) != 2 {
			t.Fatalf("Expected one message with image + text, got %+v", body.Messages)
		}
		img := body.Messages[0].Content[0]
		if img.Type != "image" || img.Source.Type != "base64" || img.Source.MediaType != "image/jpeg" {
			t.Errorf("Unexpected image block: %+v", img)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(anthropicReply))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{
		System: "sys",
		Prompt: "oku",
		Images: []Image{{Data: []byte("jpeg")}},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.Text != `{"ok": true}` {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.TokensUsed != 20 {
		t.Errorf("Expected 20 tokens, got %d", resp.TokensUsed)
	}
	if resp.Model != "claude-sonnet-4-5" {
		t.Errorf("Unexpected model: %s", resp.Model)
	}
}

func TestAnthropicProvider_Generate_APIError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "api_error", "message": "boom"}}`))
	}))
	defer server.Close()

	provider, _ := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if _, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "hello"}); err == nil {
		t.Fatal("Expected error, got nil")
	}
	if calls != 1 {
		t.Errorf("Expected a single HTTP attempt, got %d", calls)
	}
}

func TestAnthropicProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(anthropicReply))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}

func TestNewAnthropicProvider_RequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(Config{}); err == nil {
		t.Fatal("Expected error for missing API key")
	}
}
