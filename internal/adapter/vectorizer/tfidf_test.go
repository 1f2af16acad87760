package vectorizer

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTFIDF_Vocabulary(t *testing.T) {
	m := NewTFIDF(2, 100)
	if err := m.Fit([]string{"java developer", "java spring"}); err != nil {
		t.Fatal(err)
	}

	want := []string{"developer", "java", "java developer", "java spring", "spring"}
	if diff := cmp.Diff(want, m.Terms()); diff != "" {
		t.Errorf("vocabulary mismatch (-want +got):\n%s", diff)
	}
}

func TestTFIDF_MaxFeatures(t *testing.T) {
	m := NewTFIDF(1, 2)
	// counts: java 3, spring 2, go 1, sql 1
	if err := m.Fit([]string{"java java spring", "java spring go", "sql"}); err != nil {
		t.Fatal(err)
	}
	want := []string{"java", "spring"}
	if diff := cmp.Diff(want, m.Terms()); diff != "" {
		t.Errorf("vocabulary mismatch (-want +got):\n%s", diff)
	}

	tie := NewTFIDF(1, 1)
	if err := tie.Fit([]string{"zeta alpha"}); err != nil {
		t.Fatal(err)
	}
	if got := tie.Terms(); len(got) != 1 || got[0] != "alpha" {
		t.Errorf("expected lexical tie break to keep alpha, got %v", got)
	}
}

func TestTFIDF_Weights(t *testing.T) {
	m := NewTFIDF(1, 100)
	if err := m.Fit([]string{"java spring", "java"}); err != nil {
		t.Fatal(err)
	}

	// n=2: idf(java) = ln(3/3)+1 = 1, idf(spring) = ln(3/2)+1
	vec := m.Transform("java spring")
	idfSpring := math.Log(1.5) + 1
	norm := math.Sqrt(1 + idfSpring*idfSpring)
	want := []float64{1 / norm, idfSpring / norm} // terms: java, spring
	for i := range want {
		if math.Abs(vec[i]-want[i]) > 1e-9 {
			t.Errorf("component %d: expected %f, got %f", i, want[i], vec[i])
		}
	}

	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("expected unit length, got %f", math.Sqrt(sum))
	}
}

func TestTFIDF_UnknownTerms(t *testing.T) {
	m := NewTFIDF(2, 100)
	if err := m.Fit([]string{"java spring"}); err != nil {
		t.Fatal(err)
	}
	vec := m.Transform("cobol fortran")
	for i, x := range vec {
		if x != 0 {
			t.Errorf("component %d: expected 0 for unknown terms, got %f", i, x)
		}
	}
}

func TestTFIDF_Empty(t *testing.T) {
	if err := NewTFIDF(2, 10).Fit(nil); !errors.Is(err, ErrEmptyVocabulary) {
		t.Errorf("expected ErrEmptyVocabulary for empty corpus, got %v", err)
	}
	if err := NewTFIDF(2, 10).Fit([]string{"", "  "}); !errors.Is(err, ErrEmptyVocabulary) {
		t.Errorf("expected ErrEmptyVocabulary for blank docs, got %v", err)
	}
}
