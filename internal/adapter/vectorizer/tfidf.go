package vectorizer

import (
	"math"
	"sort"
	"strings"
)

// TFIDF is a term-frequency x inverse-document-frequency model over word n-grams.
// Input documents are already normalized: tokens separated by whitespace.
type TFIDF struct {
	ngramMax    int
	maxFeatures int

	vocab map[string]int
	terms []string
	idf   []float64
}

// NewTFIDF creates an unfitted model keeping at most maxFeatures n-grams of size 1..ngramMax.
func NewTFIDF(ngramMax, maxFeatures int) *TFIDF {
	if ngramMax < 1 {
		ngramMax = 1
	}
	return &TFIDF{ngramMax: ngramMax, maxFeatures: maxFeatures}
}

// Fit builds the vocabulary and idf weights from docs.
func (m *TFIDF) Fit(docs []string) error {
	if len(docs) == 0 {
		return ErrEmptyVocabulary
	}

	termCount := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, g := range ngrams(strings.Fields(doc), m.ngramMax) {
			termCount[g]++
			if _, ok := seen[g]; !ok {
				seen[g] = struct{}{}
				docFreq[g]++
			}
		}
	}
	if len(termCount) == 0 {
		return ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(termCount))
	for term := range termCount {
		terms = append(terms, term)
	}
	if m.maxFeatures > 0 && len(terms) > m.maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			ci, cj := termCount[terms[i]], termCount[terms[j]]
			if ci != cj {
				return ci > cj
			}
			return terms[i] < terms[j]
		})
		terms = terms[:m.maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	m.vocab = make(map[string]int, len(terms))
	m.idf = make([]float64, len(terms))
	for i, term := range terms {
		m.vocab[term] = i
		// smoothed idf: ln((1+n)/(1+df)) + 1
		m.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	m.terms = terms
	return nil
}

// Fitted reports whether Fit has completed.
func (m *TFIDF) Fitted() bool {
	return m.vocab != nil
}

// VocabularySize returns the number of kept n-grams.
func (m *TFIDF) VocabularySize() int {
	return len(m.terms)
}

// Terms returns the vocabulary in index order.
func (m *TFIDF) Terms() []string {
	return m.terms
}

// Transform returns the L2-normalized tf-idf vector of doc. Unknown terms are ignored.
func (m *TFIDF) Transform(doc string) []float64 {
	vec := make([]float64, len(m.terms))
	for _, g := range ngrams(strings.Fields(doc), m.ngramMax) {
		if idx, ok := m.vocab[g]; ok {
			vec[idx]++
		}
	}

	var sum float64
	for i := range vec {
		if vec[i] == 0 {
			continue
		}
		vec[i] *= m.idf[i]
		sum += vec[i] * vec[i]
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// ngrams returns all contiguous n-grams of tokens for n in 1..max, joined by a space.
func ngrams(tokens []string, max int) []string {
	out := make([]string, 0, len(tokens)*max)
	for n := 1; n <= max; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
