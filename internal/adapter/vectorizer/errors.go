package vectorizer

import "errors"

var (
	// ErrNotFitted is returned when a transform is requested before Fit.
	ErrNotFitted = errors.New("vectorizer not fitted")

	// ErrEmptyVocabulary means the corpus produced no terms.
	ErrEmptyVocabulary = errors.New("empty vocabulary")
)
