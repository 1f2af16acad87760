package vectorizer

import (
	"context"
	"fmt"
)

// FrequencyConfig configures the tf-idf + LSA strategy.
type FrequencyConfig struct {
	NgramMax    int
	MaxFeatures int
	ApplyLSA    bool
	Components  int
}

// Frequency vectorizes normalized text with tf-idf, reduced by LSA when the
// vocabulary is larger than the requested number of components.
type Frequency struct {
	cfg      FrequencyConfig
	tfidf    *TFIDF
	lsa      *LSA
	progress ProgressFunc
}

// NewFrequency creates an unfitted frequency vectorizer.
func NewFrequency(cfg FrequencyConfig) *Frequency {
	if cfg.NgramMax < 1 {
		cfg.NgramMax = 2
	}
	if cfg.MaxFeatures < 1 {
		cfg.MaxFeatures = 2000
	}
	if cfg.Components < 1 {
		cfg.Components = 15
	}
	return &Frequency{cfg: cfg}
}

// Fit learns the vocabulary, idf weights and, when it applies, the LSA projection.
func (f *Frequency) Fit(ctx context.Context, corpus []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tfidf := NewTFIDF(f.cfg.NgramMax, f.cfg.MaxFeatures)
	if err := tfidf.Fit(corpus); err != nil {
		return fmt.Errorf("fit tf-idf: %w", err)
	}

	var lsa *LSA
	if f.cfg.ApplyLSA && tfidf.VocabularySize() > f.cfg.Components {
		rows := make([][]float64, len(corpus))
		for i, doc := range corpus {
			rows[i] = tfidf.Transform(doc)
		}
		lsa = NewLSA(f.cfg.Components)
		if err := lsa.Fit(rows); err != nil {
			return fmt.Errorf("fit lsa: %w", err)
		}
	}

	f.tfidf = tfidf
	f.lsa = lsa
	return nil
}

// OnProgress registers a callback for TransformCorpus.
func (f *Frequency) OnProgress(fn ProgressFunc) {
	f.progress = fn
}

// TransformCorpus vectorizes every document with the fitted model.
func (f *Frequency) TransformCorpus(ctx context.Context, corpus []string) ([][]float64, error) {
	out := make([][]float64, len(corpus))
	for i, doc := range corpus {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := f.TransformOne(ctx, doc)
		if err != nil {
			return nil, err
		}
		out[i] = v
		if f.progress != nil {
			f.progress(i+1, len(corpus))
		}
	}
	return out, nil
}

// TransformOne vectorizes a single normalized text.
func (f *Frequency) TransformOne(_ context.Context, text string) ([]float64, error) {
	if f.tfidf == nil {
		return nil, ErrNotFitted
	}
	vec := f.tfidf.Transform(text)
	if f.lsa == nil {
		return vec, nil
	}
	return f.lsa.Project(vec)
}

// Dimension returns the output vector length, or 0 before Fit.
func (f *Frequency) Dimension() int {
	if f.lsa != nil {
		return f.lsa.Dimension()
	}
	if f.tfidf != nil {
		return f.tfidf.VocabularySize()
	}
	return 0
}

// Reduced reports whether the LSA projection is active.
func (f *Frequency) Reduced() bool {
	return f.lsa != nil
}

// Fingerprint identifies the model configuration for cache validation.
func (f *Frequency) Fingerprint() string {
	return fmt.Sprintf("tfidf/ngram=%d/max=%d/lsa=%t/k=%d/dim=%d",
		f.cfg.NgramMax, f.cfg.MaxFeatures, f.cfg.ApplyLSA, f.cfg.Components, f.Dimension())
}
