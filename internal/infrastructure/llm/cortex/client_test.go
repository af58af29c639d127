package cortex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
)

func TestCompleteSendsModelAndPrompt(t *testing.T) {
	var captured struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
		Stream bool   `json:"stream"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/complete" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "  The precedent holds.  "})
	}))
	defer server.Close()

	client := New(server.URL, "embed-model")

	text, err := client.Complete(context.Background(), domain.ModelMistralLarge, "prompt body")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "The precedent holds." {
		t.Fatalf("Complete() text = %q", text)
	}
	if captured.Model != string(domain.ModelMistralLarge) {
		t.Fatalf("request model = %q", captured.Model)
	}
	if captured.Prompt != "prompt body" {
		t.Fatalf("request prompt = %q", captured.Prompt)
	}
	if captured.Stream {
		t.Fatalf("streaming must be disabled")
	}
}

func TestCompleteMapsGatewayErrorToModelUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model mixtral-8x7b is not loaded"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, "embed-model")

	_, err := client.Complete(context.Background(), domain.ModelMixtral8x7B, "question")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected model unavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "not loaded") {
		t.Fatalf("error must carry the gateway body, got %v", err)
	}
}

func TestCompleteMapsServerErrorToModelUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream overload", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, "embed-model")

	_, err := client.Complete(context.Background(), domain.ModelMistral7B, "question")
	if !domain.IsKind(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected model unavailable, got %v", err)
	}
}

func TestEmbedUsesConfiguredModel(t *testing.T) {
	var captured struct {
		Model string   `json:"model"`
		Input []string `json:"input"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string][][]float32{
			"embeddings": {{0.1, 0.2}, {0.3, 0.4}},
		})
	}))
	defer server.Close()

	client := New(server.URL, "e5-small")

	vectors, err := client.Embed(context.Background(), []string{"first chunk", "second chunk"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if captured.Model != "e5-small" {
		t.Fatalf("embed model = %q", captured.Model)
	}
	if len(captured.Input) != 2 || captured.Input[1] != "second chunk" {
		t.Fatalf("embed input = %v", captured.Input)
	}
}

func TestEmbedQueryRejectsEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][][]float32{"embeddings": {}})
	}))
	defer server.Close()

	client := New(server.URL, "e5-small")

	if _, err := client.EmbedQuery(context.Background(), "query"); err == nil {
		t.Fatalf("expected error for empty embedding result")
	}
}
