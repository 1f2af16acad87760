package port

import "context"

// Vectorizer turns normalized text into fixed-length vectors.
// Fit is called once per engine; the transforms are safe for concurrent use afterwards.
type Vectorizer interface {
	Fit(ctx context.Context, corpus []string) error

	TransformCorpus(ctx context.Context, corpus []string) ([][]float64, error)

	TransformOne(ctx context.Context, text string) ([]float64, error)

	// Dimension is the length of every produced vector. Valid after Fit.
	Dimension() int

	// Fingerprint identifies the model configuration that produced a vector.
	Fingerprint() string
}
