package vectorizer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LSA projects tf-idf vectors onto the leading right singular vectors of the
// training document-term matrix.
type LSA struct {
	components int
	basis      *mat.Dense // vocab x k
}

// NewLSA creates an unfitted projection to at most components dimensions.
func NewLSA(components int) *LSA {
	return &LSA{components: components}
}

// Fit factorizes rows (docs x vocab) and keeps min(components, docs, vocab) directions.
// Each direction is sign-normalized so its largest-magnitude loading is positive,
// which makes the projection reproducible across runs.
func (l *LSA) Fit(rows [][]float64) error {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ErrEmptyVocabulary
	}
	docs, vocab := len(rows), len(rows[0])

	data := make([]float64, 0, docs*vocab)
	for _, r := range rows {
		if len(r) != vocab {
			return fmt.Errorf("lsa: ragged matrix: row has %d columns, want %d", len(r), vocab)
		}
		data = append(data, r...)
	}
	x := mat.NewDense(docs, vocab, data)

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return fmt.Errorf("lsa: svd factorization failed")
	}
	var v mat.Dense
	svd.VTo(&v)

	_, cols := v.Dims()
	k := min(l.components, docs, vocab, cols)
	if k < 1 {
		return fmt.Errorf("lsa: no components to keep")
	}

	basis := mat.NewDense(vocab, k, nil)
	for j := 0; j < k; j++ {
		col := mat.Col(nil, j, &v)
		sign := 1.0
		best := 0.0
		for _, val := range col {
			if math.Abs(val) > best {
				best = math.Abs(val)
				if val < 0 {
					sign = -1
				} else {
					sign = 1
				}
			}
		}
		for i, val := range col {
			basis.Set(i, j, sign*val)
		}
	}
	l.basis = basis
	return nil
}

// Dimension returns the projected dimension, or 0 before Fit.
func (l *LSA) Dimension() int {
	if l.basis == nil {
		return 0
	}
	_, k := l.basis.Dims()
	return k
}

// Project maps one tf-idf vector into the reduced space.
func (l *LSA) Project(vec []float64) ([]float64, error) {
	if l.basis == nil {
		return nil, ErrNotFitted
	}
	vocab, k := l.basis.Dims()
	if len(vec) != vocab {
		return nil, fmt.Errorf("lsa: vector has %d entries, want %d", len(vec), vocab)
	}
	out := mat.NewVecDense(k, nil)
	out.MulVec(l.basis.T(), mat.NewVecDense(vocab, append([]float64(nil), vec...)))
	return out.RawVector().Data, nil
}
