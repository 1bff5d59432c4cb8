package util

import (
	"net/http"
	"testing"
	"time"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://plain:3128", "http://secure:3129")

	tests := []struct {
		url      string
		expected string
	}{
		{"http://api.example.com/v1", "http://plain:3128"},
		{"https://api.example.com/v1", "http://secure:3129"},
	}
	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
		got, err := proxy(req)
		if err != nil {
			t.Fatalf("proxy(%s) failed: %v", tt.url, err)
		}
		if got.String() != tt.expected {
			t.Errorf("proxy(%s): expected %s, got %s", tt.url, tt.expected, got)
		}
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(5*time.Second, "", "")
	if client.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", client.Timeout)
	}
	if _, ok := client.Transport.(*http.Transport); !ok {
		t.Errorf("expected *http.Transport, got %T", client.Transport)
	}
}

func TestNewHTTPClient_Proxy(t *testing.T) {
	client := NewHTTPClient(5*time.Second, "http://proxy.local:3128", "")

	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatal("expected *http.Transport")
	}
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	proxyURL, err := transport.Proxy(req)
	if err != nil {
		t.Fatalf("proxy func failed: %v", err)
	}
	if proxyURL == nil || proxyURL.Host != "proxy.local:3128" {
		t.Errorf("expected proxy.local:3128, got %v", proxyURL)
	}
}
