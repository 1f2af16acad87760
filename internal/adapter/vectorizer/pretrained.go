package vectorizer

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"assessrec/internal/port"
)

// ProgressFunc is called after each embedded batch with the number of texts done so far.
type ProgressFunc func(done, total int)

// Pretrained vectorizes text with a fixed-dimension embedding model. Fit is a no-op.
type Pretrained struct {
	embedder    port.Embedder
	batchSize   int
	concurrency int
	progress    ProgressFunc
}

// NewPretrained wraps embedder. batchSize and concurrency below 1 default to 32 and 1.
func NewPretrained(embedder port.Embedder, batchSize, concurrency int) *Pretrained {
	if batchSize < 1 {
		batchSize = 32
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pretrained{
		embedder:    embedder,
		batchSize:   batchSize,
		concurrency: concurrency,
	}
}

// OnProgress registers a callback for TransformCorpus.
func (p *Pretrained) OnProgress(fn ProgressFunc) {
	p.progress = fn
}

func (p *Pretrained) Fit(ctx context.Context, _ []string) error {
	return ctx.Err()
}

// TransformCorpus embeds corpus in batches, running up to concurrency batches at once.
// Output rows keep corpus order.
func (p *Pretrained) TransformCorpus(ctx context.Context, corpus []string) ([][]float64, error) {
	out := make([][]float64, len(corpus))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for start := 0; start < len(corpus); start += p.batchSize {
		end := min(start+p.batchSize, len(corpus))
		g.Go(func() error {
			vecs, err := p.embed(gctx, corpus[start:end])
			if err != nil {
				return fmt.Errorf("embed batch %d-%d: %w", start, end, err)
			}
			copy(out[start:end], vecs)
			n := done.Add(int64(end - start))
			if p.progress != nil {
				p.progress(int(n), len(corpus))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// TransformOne embeds a single text.
func (p *Pretrained) TransformOne(ctx context.Context, text string) ([]float64, error) {
	vecs, err := p.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (p *Pretrained) embed(ctx context.Context, texts []string) ([][]float64, error) {
	raw, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(raw) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(raw), len(texts))
	}
	dim := p.embedder.Dimension()
	out := make([][]float64, len(raw))
	for i, v := range raw {
		if dim > 0 && len(v) != dim {
			return nil, fmt.Errorf("embedding %d has %d dimensions, want %d", i, len(v), dim)
		}
		row := make([]float64, len(v))
		for j, x := range v {
			row[j] = float64(x)
		}
		out[i] = row
	}
	return out, nil
}

func (p *Pretrained) Dimension() int {
	return p.embedder.Dimension()
}

// Fingerprint identifies the embedding model for cache validation.
func (p *Pretrained) Fingerprint() string {
	return fmt.Sprintf("embedding/%s/dim=%d", p.embedder.ModelName(), p.embedder.Dimension())
}
