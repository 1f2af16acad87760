package vectorizer

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"assessrec/internal/adapter/embedding"
)

type shortEmbedder struct{}

func (shortEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1}
	}
	return out, nil
}
func (shortEmbedder) Dimension() int    { return 4 }
func (shortEmbedder) ModelName() string { return "short" }

func TestPretrained_TransformCorpusKeepsOrder(t *testing.T) {
	ctx := context.Background()
	mock := embedding.NewMockEmbedder(32)
	p := NewPretrained(mock, 3, 4)

	var mu sync.Mutex
	var last int
	p.OnProgress(func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		if done > last {
			last = done
		}
	})

	corpus := make([]string, 10)
	for i := range corpus {
		corpus[i] = fmt.Sprintf("document number %d", i)
	}

	rows, err := p.TransformCorpus(ctx, corpus)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(corpus) {
		t.Fatalf("expected %d rows, got %d", len(corpus), len(rows))
	}
	for i, doc := range corpus {
		one, err := p.TransformOne(ctx, doc)
		if err != nil {
			t.Fatal(err)
		}
		for j := range one {
			if one[j] != rows[i][j] {
				t.Fatalf("row %d does not match its own text", i)
			}
		}
	}
	if last != len(corpus) {
		t.Errorf("expected progress to reach %d, got %d", len(corpus), last)
	}
	if p.Dimension() != 32 {
		t.Errorf("expected dimension 32, got %d", p.Dimension())
	}
}

func TestPretrained_DimensionMismatch(t *testing.T) {
	p := NewPretrained(shortEmbedder{}, 8, 1)
	if _, err := p.TransformOne(context.Background(), "x"); err == nil {
		t.Error("expected error when the embedder returns the wrong dimension")
	}
	if _, err := p.TransformCorpus(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("expected corpus error when the embedder returns the wrong dimension")
	}
}

func TestPretrained_Fingerprint(t *testing.T) {
	p := NewPretrained(embedding.NewMockEmbedder(16), 0, 0)
	if got := p.Fingerprint(); got != "embedding/mock/dim=16" {
		t.Errorf("unexpected fingerprint %s", got)
	}
	if err := p.Fit(context.Background(), nil); err != nil {
		t.Errorf("fit should be a no-op, got %v", err)
	}
}
