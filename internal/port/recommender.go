package port

import (
	"context"

	"assessrec/internal/domain"
)

// Recommender is the query surface consumed by the HTTP API, the TUI and the evaluator.
type Recommender interface {
	Ready() bool

	Search(ctx context.Context, query string, topK int) ([]domain.SearchHit, error)

	Recommend(ctx context.Context, req domain.SearchRequest) ([]domain.Recommendation, error)
}
