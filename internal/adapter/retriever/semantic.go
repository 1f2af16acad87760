package retriever

import "math"

// SemanticScorer scores a query vector against every catalogue vector.
type SemanticScorer struct{}

// NewSemanticScorer creates a new SemanticScorer.
func NewSemanticScorer() *SemanticScorer {
	return &SemanticScorer{}
}

// Score returns one cosine similarity per row of vectors, in row order.
func (s *SemanticScorer) Score(query []float64, vectors [][]float64) []float64 {
	scores := make([]float64, len(vectors))
	qNorm := norm(query)
	if qNorm == 0 {
		return scores
	}
	for i, v := range vectors {
		scores[i] = cosineWithNorm(query, qNorm, v)
	}
	return scores
}

// Cosine computes cosine similarity between two vectors.
// Zero-norm vectors and length mismatches yield 0.
func Cosine(a, b []float64) float64 {
	return cosineWithNorm(a, norm(a), b)
}

func cosineWithNorm(a []float64, normA float64, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 || normA == 0 {
		return 0
	}

	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	normB := norm(b)
	if normB == 0 {
		return 0
	}

	sim := dot / (normA * normB)
	// rounding can push parallel vectors slightly past 1
	return math.Max(-1, math.Min(1, sim))
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
