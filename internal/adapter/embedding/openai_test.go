package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOpenAIEmbedder_Embed(t *testing.T) {
	var gotAuth string
	var gotReq embeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		// out of order on purpose
		json.NewEncoder(w).Encode(embeddingResponse{Data: []embeddingData{
			{Embedding: []float32{0, 1}, Index: 1},
			{Embedding: []float32{1, 0}, Index: 0},
		}})
	}))
	defer srv.Close()

	t.Setenv("TEST_EMBED_KEY", "secret")
	e, err := NewOpenAICompatibleEmbedder("TEST_EMBED_KEY", "text-embedding-3-small", srv.URL, WithDimension(2))
	if err != nil {
		t.Fatal(err)
	}

	vecs, err := e.Embed(context.Background(), []string{"java", "spring"})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]float32{{1, 0}, {0, 1}}
	if diff := cmp.Diff(want, vecs); diff != "" {
		t.Errorf("embeddings mismatch (-want +got):\n%s", diff)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotReq.Model != "text-embedding-3-small" || len(gotReq.Input) != 2 {
		t.Errorf("unexpected request %+v", gotReq)
	}
	if e.Dimension() != 2 {
		t.Errorf("expected dimension override 2, got %d", e.Dimension())
	}
}

func TestOpenAIEmbedder_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("all-minilm", srv.URL)
	if _, err := e.Embed(context.Background(), []string{"x"}); err == nil {
		t.Error("expected error for 503 response")
	}
}

func TestOpenAIEmbedder_MissingEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingResponse{Data: []embeddingData{{Embedding: []float32{1}, Index: 0}}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("all-minilm", srv.URL)
	if _, err := e.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("expected error when the response is short")
	}
}

func TestOpenAIEmbedder_MissingKey(t *testing.T) {
	t.Setenv("TEST_EMBED_KEY_EMPTY", "")
	if _, err := NewOpenAICompatibleEmbedder("TEST_EMBED_KEY_EMPTY", "m", "http://localhost"); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestOpenAIEmbedder_RateLimitHonorsContext(t *testing.T) {
	e := NewOllamaEmbedder("all-minilm", "http://127.0.0.1:1", WithRateLimit(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Embed(ctx, []string{"x"})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestOllamaDimensions(t *testing.T) {
	tests := map[string]int{
		"all-minilm":        384,
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"unknown":           768,
	}
	for model, want := range tests {
		if got := NewOllamaEmbedder(model, "").Dimension(); got != want {
			t.Errorf("%s: expected %d, got %d", model, want, got)
		}
	}
}
